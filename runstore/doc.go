package runstore

/*

# Dynamic run-length string store

The store holds a string S as a sequence of runs (symbol, length) and supports
rank, access and insertion of single characters at arbitrary positions. It is
the dynamic structure underneath the online RLBWT engine, which only ever grows
S, so there is no delete.

## Shape

Runs are kept in the leaves of a B+ tree. The tree lives in a single arena,
`[]node`, and every link (parent, child, next leaf) is a NodeRef index into
that arena. Nothing is ever freed; a split allocates the new right sibling at
the end of the arena and the left half keeps its index. In particular the left
most leaf never moves, which is what ForEachRun starts from.

	              inner (<= Fanout children)
	           /        |          \
	       leaf  ->   leaf   ->    leaf        (<= LeafRuns runs each)
	   syms: [G T A]  ...
	   lens: stepcode.Vec{3, 1, 17}

Every node caches the total length of its subtree and sparse per symbol counts.
Descending for position p subtracts child totals left to right; descending for
rank additionally accumulates the child counts for the queried symbol. Both
are O(Fanout * height) with height O(log r).

Leaves keep their symbols in a byte slice and their lengths in a step coded
vector, so a short run costs one byte plus 4 bits of length plus a 4 bit width
code.

## Insertion

Insert(p, c) looks at the run holding p-1 (the run immediately left of the
insertion point):

1. if that run is c, it grows by one
2. if p falls strictly inside that run, the run is split around a new (c, 1)
3. otherwise p sits on a run boundary; if the run starting at p is c it grows,
   else a new (c, 1) run is placed between the two

Counts are then bumped along the parent chain and an overfull leaf (or inner
node) is split in half, possibly growing a new root.

A run is never grown past MaxRunLength. When the run left of the insertion
point is a full run of c, the insertion is handled as if it were at that run's
right boundary: the next run grows if it is a non full run of c, otherwise a
new (c, 1) run starts. Once any run has reached the limit, runs are no longer
guaranteed to be maximal: adjacent runs may share a symbol. The limit is never
reported as an error.

*/
