package grouper

// unionFind is a disjoint-set-union structure over string keys, backed by
// a dense integer arena: keys map to sequential ids indexing flat
// parent/rank slices, so no per-node allocation happens after warmup.
// Keys register lazily as singleton roots (rank 0) on first reference.
type unionFind struct {
	index  map[string]int
	parent []int
	rank   []int
}

func newUnionFind(capacity int) *unionFind {
	return &unionFind{
		index:  make(map[string]int, capacity),
		parent: make([]int, 0, capacity),
		rank:   make([]int, 0, capacity),
	}
}

func (u *unionFind) id(x string) int {
	if id, ok := u.index[x]; ok {
		return id
	}
	id := len(u.parent)
	u.index[x] = id
	u.parent = append(u.parent, id)
	u.rank = append(u.rank, 0)
	return id
}

func (u *unionFind) findID(id int) int {
	if u.parent[id] != id {
		u.parent[id] = u.findID(u.parent[id]) // path compression
	}
	return u.parent[id]
}

// find returns the dense id of x's set root.
func (u *unionFind) find(x string) int {
	return u.findID(u.id(x))
}

// union merges the sets containing x and y, by rank.
func (u *unionFind) union(x, y string) {
	rx, ry := u.find(x), u.find(y)
	if rx == ry {
		return
	}
	if u.rank[rx] < u.rank[ry] {
		rx, ry = ry, rx
	}
	u.parent[ry] = rx
	if u.rank[rx] == u.rank[ry] {
		u.rank[rx]++
	}
}

// connected reports whether x and y share a set.
func (u *unionFind) connected(x, y string) bool {
	return u.find(x) == u.find(y)
}
