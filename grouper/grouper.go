// Package grouper clusters photos whose perceptual fingerprints fall
// within a Hamming-distance threshold of each other.
package grouper

import (
	"sort"

	"photodedup/models"
	"photodedup/phash"
)

// GroupSimilar partitions the fingerprinted photos into similarity groups
// of two or more members. Entries with a nil fingerprint are discarded up
// front. The pairwise scan is exhaustive O(n²); fine into the low
// thousands of photos, and isolated here so a spatial index could replace
// it without touching the group contract.
//
// Output is deterministic for a given input regardless of map iteration
// order: pairs are enumerated over lexicographically sorted paths, groups
// are ordered by descending member count with ties kept in first-discovery
// order, and members within a group are sorted by path ascending.
func GroupSimilar(fingerprints map[string]*string, sizes map[string]int64, threshold int) ([]models.PhotoGroup, error) {
	valid := make(map[string]string, len(fingerprints))
	paths := make([]string, 0, len(fingerprints))
	for path, hash := range fingerprints {
		if hash == nil {
			continue
		}
		valid[path] = *hash
		paths = append(paths, path)
	}
	sort.Strings(paths)

	n := len(paths)
	if n == 0 {
		return []models.PhotoGroup{}, nil
	}

	uf := newUnionFind(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dist, err := phash.Distance(valid[paths[i]], valid[paths[j]])
			if err != nil {
				return nil, err
			}
			if dist <= threshold {
				uf.union(paths[i], paths[j])
			}
		}
	}

	// partition by resolved root; members land pre-sorted because paths
	// are iterated in sorted order
	members := make(map[int][]string)
	var rootOrder []int
	for _, path := range paths {
		root := uf.find(path)
		if _, seen := members[root]; !seen {
			rootOrder = append(rootOrder, root)
		}
		members[root] = append(members[root], path)
	}

	var surviving []int
	for _, root := range rootOrder {
		if len(members[root]) >= 2 {
			surviving = append(surviving, root)
		}
	}
	sort.SliceStable(surviving, func(a, b int) bool {
		return len(members[surviving[a]]) > len(members[surviving[b]])
	})

	groups := make([]models.PhotoGroup, 0, len(surviving))
	for gid, root := range surviving {
		group := models.PhotoGroup{GroupID: gid, Count: len(members[root])}
		for _, path := range members[root] {
			p := models.GroupPhoto{Path: path, Hash: valid[path], Size: sizes[path]}
			group.TotalSize += p.Size
			group.Photos = append(group.Photos, p)
		}
		groups = append(groups, group)
	}

	return groups, nil
}
