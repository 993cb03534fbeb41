// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package avl_test

import (
	"bytes"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/recordd/avl"
	"github.com/bitmark-inc/recordd/record"
)

func makeRecord(id int) record.Record {
	return record.Record{
		Identifier: id,
		Name:       fmt.Sprintf("name-%d", id),
		Score:      id % 101,
		Category:   string(rune('A' + id%5)),
	}
}

// dump the tree into the test log and stop
func failTree(t *testing.T, tree *avl.Tree, format string, arguments ...interface{}) {
	t.Helper()
	buffer := &bytes.Buffer{}
	depth := tree.Print(buffer, true)
	t.Logf("tree depth: %d\n%s", depth, buffer.String())
	t.Fatalf(format, arguments...)
}

func checkTree(t *testing.T, tree *avl.Tree, stage string) {
	t.Helper()
	if err := tree.Check(); nil != err {
		failTree(t, tree, "%s: inconsistent tree: %s", stage, err)
	}
	n := tree.Count()
	h := tree.Height()
	if float64(h) > 1.4405*math.Log2(float64(n+2))-0.3277 {
		failTree(t, tree, "%s: height: %d too large for count: %d", stage, h, n)
	}
}

func TestListShort(t *testing.T) {
	addList := []int{4201, 1254, 8608, 1639, 8950, 6740}
	doList(t, addList)
	doTraverse(t, addList)
}

// to make sure that lots of duplicates do not increment the node
// count incorrectly or overwrite the first record
func TestListDuplicates(t *testing.T) {
	addList := []int{
		1720, 506, 8382, 6774, 1247, 1250, 1264, 1258, 1255, 2247,
		2004, 2194, 2644, 2169, 8133, 2136, 9651, 4079, 1042, 3579,
		3630, 1427, 5843, 9549, 5433, 1274, 9034, 4724, 6179, 5072,
		9272, 4030, 4205, 3363, 8582, 1720, 506, 8382, 6774, 1042,
		1042, 1042, 1042, 1042, 1042, 1042, 1042, 1042, 1042, 1042,
	}
	doList(t, addList)
	doTraverse(t, addList)
}

func TestListAscendingAndDescending(t *testing.T) {
	ascending := make([]int, 0, 200)
	descending := make([]int, 0, 200)
	for i := 0; i < 200; i += 1 {
		ascending = append(ascending, i)
		descending = append(descending, 1000-i)
	}
	doList(t, ascending)
	doTraverse(t, ascending)
	doList(t, descending)
	doTraverse(t, descending)
}

func doList(t *testing.T, addList []int) {

	for i := 0; i < len(addList)+1; i += 1 {

		alreadyDeleted := make(map[int]struct{})

		tree := avl.New()
		for _, key := range addList {
			tree.Insert(makeRecord(key))
		}
		checkTree(t, tree, "add")

	delete_items:
		for _, key := range addList[:i] {
			if _, ok := alreadyDeleted[key]; ok {
				if tree.Delete(key) {
					failTree(t, tree, "second delete of: %d succeeded", key)
				}
				continue delete_items
			}
			alreadyDeleted[key] = struct{}{}
			if !tree.Delete(key) {
				failTree(t, tree, "delete: %d not found", key)
			}
			if _, found := tree.Search(key); found {
				failTree(t, tree, "deleted: %d still found", key)
			}
		}
		checkTree(t, tree, "delete")

	delete_remainder:
		for _, key := range addList[i:] {
			if _, ok := alreadyDeleted[key]; ok {
				continue delete_remainder
			}
			alreadyDeleted[key] = struct{}{}
			if !tree.Delete(key) {
				failTree(t, tree, "delete remainder: %d not found", key)
			}
			checkTree(t, tree, "delete remainder")
		}
		if !tree.IsEmpty() {
			failTree(t, tree, "remainder: remaining nodes")
		}
		if 0 != tree.Count() {
			t.Fatalf("remaining count not zero: %d", tree.Count())
		}
	}
}

// traverse the tree to check the iterator and snapshot
func doTraverse(t *testing.T, addList []int) {

	unique := make(map[int]struct{})
	tree := avl.New()
	for _, key := range addList {
		_, seen := unique[key]
		unique[key] = struct{}{}
		if added := tree.Insert(makeRecord(key)); added == seen {
			t.Fatalf("insert: %d  added: %v  already present: %v", key, added, seen)
		}
	}

	expected := make([]int, 0, len(unique))
	for key := range unique {
		expected = append(expected, key)
	}
	sort.Ints(expected)

	if len(expected) != tree.Count() {
		t.Fatalf("expected: %d items, but tree count: %d", len(expected), tree.Count())
	}

	// iterate twice to ensure restart from the beginning
	for pass := 0; pass < 2; pass += 1 {
		it := tree.Iterator()
		n := 0
		for r, ok := it.Next(); ok; r, ok = it.Next() {
			if n >= len(expected) {
				t.Fatalf("pass: %d  extra item: %d", pass, r.Identifier)
			}
			if expected[n] != r.Identifier {
				t.Fatalf("pass: %d  next item: actual: %d  expected: %d", pass, r.Identifier, expected[n])
			}
			if makeRecord(r.Identifier) != r {
				t.Fatalf("pass: %d  record: %+v corrupted", pass, r)
			}
			n += 1
		}
		if n != len(expected) {
			t.Fatalf("pass: %d  item count: actual: %d  expected: %d", pass, n, len(expected))
		}
	}

	snapshot := tree.Snapshot()
	assert.Equal(t, len(expected), len(snapshot), "wrong snapshot length")
	for i, r := range snapshot {
		assert.Equal(t, expected[i], r.Identifier, "wrong snapshot item: %d", i)
	}

	first, ok := tree.First()
	assert.True(t, ok, "no first item")
	assert.Equal(t, expected[0], first.Identifier, "wrong first item")
	last, ok := tree.Last()
	assert.True(t, ok, "no last item")
	assert.Equal(t, expected[len(expected)-1], last.Identifier, "wrong last item")

	// delete remainder
	for _, key := range expected {
		tree.Delete(key)
	}

	if !tree.IsEmpty() {
		failTree(t, tree, "remainder: remaining nodes")
	}
	if 0 != tree.Count() {
		t.Fatalf("remaining count not zero: %d", tree.Count())
	}
	if 0 != len(tree.Snapshot()) {
		t.Fatalf("snapshot of empty tree not empty")
	}
}

func TestEmptyTree(t *testing.T) {
	tree := avl.New()

	assert.True(t, tree.IsEmpty(), "new tree not empty")
	assert.Equal(t, 0, tree.Count(), "wrong count")
	assert.Equal(t, 0, tree.Height(), "wrong height")
	assert.Nil(t, tree.Check(), "empty tree inconsistent")

	_, found := tree.Search(1)
	assert.False(t, found, "found item in empty tree")
	assert.False(t, tree.Delete(1), "deleted item from empty tree")

	_, ok := tree.First()
	assert.False(t, ok, "first item in empty tree")
	_, ok = tree.Last()
	assert.False(t, ok, "last item in empty tree")

	_, ok = tree.Iterator().Next()
	assert.False(t, ok, "iterator returned item from empty tree")

	buffer := &bytes.Buffer{}
	assert.Equal(t, 0, tree.Print(buffer, false), "wrong empty depth")
	assert.Equal(t, "", buffer.String(), "printed empty tree")
}

// an insert of an existing identifier must not change the record
func TestInsertNeverOverwrites(t *testing.T) {
	tree := avl.New()
	original := record.Record{Identifier: 7, Name: "first", Score: 70, Category: "B"}
	replacement := record.Record{Identifier: 7, Name: "second", Score: 10, Category: "F"}

	assert.True(t, tree.Insert(original), "first insert failed")
	assert.False(t, tree.Insert(replacement), "duplicate insert succeeded")
	assert.Equal(t, 1, tree.Count(), "wrong count")

	r, found := tree.Search(7)
	assert.True(t, found, "record not found")
	assert.Equal(t, original, r, "record was overwritten")

	// the update pattern: delete then insert
	assert.True(t, tree.Delete(7), "delete failed")
	assert.True(t, tree.Insert(replacement), "re-insert failed")
	r, _ = tree.Search(7)
	assert.Equal(t, replacement, r, "record not replaced")
}

func TestSearchRoundTrip(t *testing.T) {
	tree := avl.New()
	for i := 0; i < 500; i += 1 {
		id := (i * 7919) % 1009
		r := makeRecord(id)
		tree.Insert(r)

		found, ok := tree.Search(id)
		if !ok {
			t.Fatalf("search: %d not found after insert", id)
		}
		if r != found {
			t.Fatalf("search: %d  actual: %+v  expected: %+v", id, found, r)
		}
	}
	checkTree(t, tree, "round trip")

	for i := 0; i < 1009; i += 3 {
		tree.Delete(i)
		if _, ok := tree.Search(i); ok {
			t.Fatalf("search: %d found after delete", i)
		}
	}
	checkTree(t, tree, "round trip delete")
}

func TestRandomTree(t *testing.T) {
	random := rand.New(rand.NewSource(20201019))

	randomTree(t, random, 2200, 2000)
	randomTree(t, random, 3400, 2760)
	randomTree(t, random, 5467, 1234)

	for i := 0; i < 5; i += 1 {
		randomTree(t, random, 2100, 2000)
	}
}

func randomTree(t *testing.T, random *rand.Rand, total int, toDelete int) {

	if toDelete > total {
		t.Fatalf("failed: total: %d  < deletions: %d", total, toDelete)
	}

	tree := avl.New()
	present := make(map[int]struct{})
	d := make([]int, toDelete)

	for i := 0; i < total; i += 1 {
		key := random.Intn(10000)
		if i < len(d) {
			d[i] = key
		}
		tree.Insert(makeRecord(key))
		present[key] = struct{}{}
	}
	checkTree(t, tree, "random add")
	if len(present) != tree.Count() {
		t.Fatalf("count: %d  expected: %d", tree.Count(), len(present))
	}

	for _, key := range d {
		_, expected := present[key]
		if deleted := tree.Delete(key); deleted != expected {
			failTree(t, tree, "delete: %d  returned: %v  expected: %v", key, deleted, expected)
		}
		delete(present, key)
		checkTree(t, tree, "random delete")
	}

	// add back the test value
	testRecord := record.Record{
		Identifier: 50000,
		Name:       "just testing data",
		Score:      500,
		Category:   "test",
	}
	tree.Insert(testRecord)
	checkTree(t, tree, "test value")

	// check that test value is searchable
	r, found := tree.Search(testRecord.Identifier)
	if !found {
		t.Fatalf("could not find test key: %d", testRecord.Identifier)
	}
	if testRecord != r {
		t.Fatalf("test value mismatch: actual: %+v  expected: %+v", r, testRecord)
	}

	last, _ := tree.Last()
	if testRecord != last {
		t.Fatalf("test value is not last: %+v", last)
	}

	// delete the test value, and check it is no longer in the tree
	if !tree.Delete(testRecord.Identifier) {
		t.Fatalf("delete test value failed")
	}
	if _, found := tree.Search(testRecord.Identifier); found {
		t.Fatalf("test key not deleted")
	}
	checkTree(t, tree, "test value deleted")
}

func TestPrint(t *testing.T) {
	tree := avl.New()
	for _, id := range []int{20, 10, 30} {
		tree.Insert(makeRecord(id))
	}

	buffer := &bytes.Buffer{}
	depth := tree.Print(buffer, false)
	assert.Equal(t, 2, depth, "wrong depth")

	expected := "       /------+ 30\n" +
		"|------+ 20\n" +
		"       \\------+ 10\n"
	assert.Equal(t, expected, buffer.String(), "wrong drawing")
}
