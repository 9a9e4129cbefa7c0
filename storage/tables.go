package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"studybuddy-admin/domain"
)

// maxTransactionActions is the entity group transaction limit of Table Storage.
const maxTransactionActions = 100

// TableStore maps collections to tables. All documents of a collection share
// one partition so that a batch can be committed as a single transaction.
//
// Table Storage drops null properties, so the optional fields of each
// collection are put back as nil when documents are read.
type TableStore struct {
	svc       *aztables.ServiceClient
	partition string
	optional  map[string][]string
	clients   map[string]*aztables.Client
	created   map[string]bool
}

// NewTableStore creates a store. optional maps a collection name to the
// fields that must be present in every document read from it.
func NewTableStore(svc *aztables.ServiceClient, partition string, optional map[string][]string) *TableStore {
	return &TableStore{
		svc:       svc,
		partition: partition,
		optional:  optional,
		clients:   map[string]*aztables.Client{},
		created:   map[string]bool{},
	}
}

func (s *TableStore) table(name string) *aztables.Client {
	c, ok := s.clients[name]
	if !ok {
		c = s.svc.NewClient(name)
		s.clients[name] = c
	}
	return c
}

// ensureTable creates the table unless it already exists.
func (s *TableStore) ensureTable(ctx context.Context, name string) error {
	if s.created[name] {
		return nil
	}
	if _, err := s.table(name).CreateTable(ctx, nil); err != nil {
		var respErr *azcore.ResponseError
		if !(errors.As(err, &respErr) && respErr.ErrorCode == string(aztables.TableAlreadyExists)) {
			return err
		}
	}
	s.created[name] = true
	return nil
}

// List returns the documents of the store partition in collection.
func (s *TableStore) List(ctx context.Context, collection string) ([]domain.Document, error) {
	filter := "PartitionKey eq '" + s.partition + "'"
	pager := s.table(collection).NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})
	docs := []domain.Document{}
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			if isNotFound(err) {
				return docs, nil
			}
			return nil, err
		}
		for _, e := range resp.Entities {
			doc, err := decodeEntity(e, s.optional[collection])
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func (s *TableStore) Delete(ctx context.Context, collection, id string) error {
	_, err := s.table(collection).DeleteEntity(ctx, s.partition, id, nil)
	if isNotFound(err) {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	return err
}

// UpdateFields merges fields into the entity.
func (s *TableStore) UpdateFields(ctx context.Context, collection, id string, fields map[string]any) error {
	payload, err := encodeEntity(s.partition, domain.Document{ID: id, Fields: fields})
	if err != nil {
		return err
	}
	et := azcore.ETagAny
	_, err = s.table(collection).UpdateEntity(ctx, payload, &aztables.UpdateEntityOptions{IfMatch: &et, UpdateMode: aztables.UpdateModeMerge})
	if isNotFound(err) {
		return fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	return err
}

func (s *TableStore) NewID(string) string { return uuid.NewString() }

// CommitBatch inserts docs in one entity group transaction.
func (s *TableStore) CommitBatch(ctx context.Context, collection string, docs []domain.Document) error {
	if len(docs) > maxTransactionActions {
		return fmt.Errorf("%w: %d documents, table transactions hold at most %d", domain.ErrBatchTooLarge, len(docs), maxTransactionActions)
	}
	if len(docs) == 0 {
		return nil
	}
	actions, err := transactionActions(s.partition, docs)
	if err != nil {
		return err
	}
	if err := s.ensureTable(ctx, collection); err != nil {
		return err
	}
	_, err = s.table(collection).SubmitTransaction(ctx, actions, nil)
	return err
}

func (s *TableStore) Close(context.Context) error { return nil }

func transactionActions(partition string, docs []domain.Document) ([]aztables.TransactionAction, error) {
	actions := make([]aztables.TransactionAction, 0, len(docs))
	for _, doc := range docs {
		payload, err := encodeEntity(partition, doc)
		if err != nil {
			return nil, err
		}
		actions = append(actions, aztables.TransactionAction{ActionType: aztables.TransactionTypeAdd, Entity: payload})
	}
	return actions, nil
}

// encodeEntity keeps nil fields as explicit JSON nulls.
func encodeEntity(partition string, doc domain.Document) ([]byte, error) {
	ent := make(map[string]any, len(doc.Fields)+2)
	for k, v := range doc.Fields {
		ent[k] = v
	}
	ent["PartitionKey"] = partition
	ent["RowKey"] = doc.ID
	return sonic.Marshal(ent)
}

// decodeEntity strips system properties and adds every missing optional
// field as nil.
func decodeEntity(data []byte, optional []string) (domain.Document, error) {
	var ent map[string]any
	if err := sonic.Unmarshal(data, &ent); err != nil {
		return domain.Document{}, err
	}
	id, _ := ent["RowKey"].(string)
	for k := range ent {
		if isSystemProperty(k) {
			delete(ent, k)
		}
	}
	for _, f := range optional {
		if _, ok := ent[f]; !ok {
			ent[f] = nil
		}
	}
	return domain.Document{ID: id, Fields: ent}, nil
}

func isSystemProperty(name string) bool {
	switch name {
	case "PartitionKey", "RowKey", "Timestamp":
		return true
	}
	return strings.HasPrefix(name, "odata.") || strings.Contains(name, "@odata.")
}

func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}
