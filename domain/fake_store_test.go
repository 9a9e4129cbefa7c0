package domain

import (
	"context"
	"fmt"
)

type fakeStore struct {
	docs      map[string][]Document
	nextID    int
	listErr   error
	deleteErr map[string]error
	commitErr error
	updateErr error
	// sticky ids survive a successful delete, as if another writer re-created them.
	sticky map[string]bool

	listCalls   int
	deleteCalls int
	commits     [][]Document
	updates     map[string]map[string]any
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string][]Document{}}
}

func (f *fakeStore) seed(collection string, ids ...string) {
	for _, id := range ids {
		f.docs[collection] = append(f.docs[collection], Document{ID: id, Fields: map[string]any{FieldID: id}})
	}
}

func (f *fakeStore) List(ctx context.Context, collection string) ([]Document, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]Document(nil), f.docs[collection]...), nil
}

func (f *fakeStore) Delete(ctx context.Context, collection, id string) error {
	f.deleteCalls++
	if err := f.deleteErr[id]; err != nil {
		return err
	}
	if f.sticky[id] {
		return nil
	}
	docs := f.docs[collection]
	for i, d := range docs {
		if d.ID == id {
			f.docs[collection] = append(docs[:i:i], docs[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	for _, d := range f.docs[collection] {
		if d.ID != id {
			continue
		}
		for k, v := range fields {
			d.Fields[k] = v
		}
		if f.updates == nil {
			f.updates = map[string]map[string]any{}
		}
		f.updates[id] = fields
		return nil
	}
	return ErrNotFound
}

func (f *fakeStore) NewID(collection string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", collection, f.nextID)
}

func (f *fakeStore) CommitBatch(ctx context.Context, collection string, docs []Document) error {
	f.commits = append(f.commits, docs)
	if f.commitErr != nil {
		return f.commitErr
	}
	f.docs[collection] = append(f.docs[collection], docs...)
	return nil
}
