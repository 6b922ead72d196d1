package rlbwt

/*

# Online run-length BWT

Engine builds the Burrows-Wheeler transform of a byte stream one character at
a time, keeping the transform run-length compressed in a runstore.Store. After
every call to Extend the store holds the exact transform of everything fed so
far; nothing is ever re-scanned.

## Rotation convention

Each Extend *prepends* its character to the indexed text. After feeding
c1 c2 ... ck the engine indexes

	X = ck ... c2 c1 $

where $ is an end marker that sorts below every byte value, 0x00 included.
The store holds the BWT of X with the single $ removed, so it is exactly k
bytes long, and Last() is the row in which $ sits (0 <= Last() <= k).

Callers that want the transform of a genome in its natural orientation feed
it reversed, which is what the fasta package's Reverse order does.

## Extend

The row of X$ is the row that carries $ in its last column. Prepending c
turns that $ into c and adds the single new row cX$, whose last column is the
new $. With C(c) the number of symbols below c and rank(c, i) the occurrences
of c in S[0, i):

	p    = 1 + C(c) + rank(c, last)   // the 1 is the row of "$" itself
	S    = S[:last] + c + S[last:]
	last = p

Both C(c) and rank(c, last) are taken before the insertion.

## Decompress

Row 0 is the rotation starting with $, and its last column is c1, the first
character fed. Repeated LF steps walk X backwards, which is the fed stream
forwards, so Decompress produces the input in its original order without a
final reversal. After exactly k steps the walk is back on the $ row; landing
there early or late means the structure is corrupt.

Separators (0x00) get no special treatment: they are ordinary symbols and the
round trip for multi record input rests entirely on the generic algorithm.

*/
