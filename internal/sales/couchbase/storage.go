package couchbase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couchbase/gocb/v2"
	"go.uber.org/zap"

	"sales_backend/internal/sales"
)

const (
	// scope and collection in which sale records are stored
	scope      = "backoffice"
	collection = "sales"

	cbTimeout = time.Second * 3
)

// Storage is a Couchbase-backed implementation of sales.Storage.
type Storage struct {
	bucket     string
	cluster    *gocb.Cluster
	collection *gocb.Collection
	logger     *zap.Logger
}

func NewStorage(logger *zap.Logger, cluster *gocb.Cluster, bucket string) (*Storage, error) {
	s := Storage{
		bucket:  bucket,
		cluster: cluster,
		logger:  logger,
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	if err := s.setCollection(); err != nil {
		return nil, fmt.Errorf("unable to set collection: %w", err)
	}

	return &s, nil
}

func (s *Storage) validate() error {
	var missingDeps []string

	for _, tc := range []struct {
		dep string
		chk func() bool
	}{
		{
			dep: "logger",
			chk: func() bool { return s.logger != nil },
		},
		{
			dep: "cluster",
			chk: func() bool { return s.cluster != nil },
		},
		{
			dep: "bucket",
			chk: func() bool { return s.bucket != "" },
		},
	} {
		if !tc.chk() {
			missingDeps = append(missingDeps, tc.dep)
		}
	}

	if len(missingDeps) > 0 {
		return fmt.Errorf(
			"unable to initialize storage due to (%d) missing dependencies: %s",
			len(missingDeps),
			strings.Join(missingDeps, ","),
		)
	}

	return nil
}

// Set stores the sale under its ID, replacing any previous record.
func (s *Storage) Set(sale *sales.Sale) error {
	if sale.ID == "" {
		return sales.ErrEmptyID
	}

	opts := gocb.UpsertOptions{
		Timeout: cbTimeout,
	}
	if _, err := s.collection.Upsert(sale.ID, sale, &opts); err != nil {
		const msg = "unable to upsert sale record"
		s.logger.Error(msg, zap.String("saleId", sale.ID), zap.Error(err))
		return fmt.Errorf(msg+": %w", err)
	}

	return nil
}

// Read retrieves a sale by ID. Returns sales.ErrNotFound when the document
// does not exist.
func (s *Storage) Read(id string) (*sales.Sale, error) {
	res, err := s.collection.Get(id, &gocb.GetOptions{Timeout: cbTimeout})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return nil, sales.ErrNotFound
		}
		const msg = "unable to get sale record"
		s.logger.Error(msg, zap.String("saleId", id), zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	var sale sales.Sale
	if err := res.Content(&sale); err != nil {
		const msg = "unable to unmarshal sale record"
		s.logger.Error(msg, zap.String("saleId", id), zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	return &sale, nil
}

// GetAll retrieves every sale record in the collection.
func (s *Storage) GetAll() ([]*sales.Sale, error) {
	opts := gocb.QueryOptions{
		ScanConsistency: gocb.QueryScanConsistencyRequestPlus,
		Timeout:         cbTimeout,
	}

	stmt := "SELECT s.* FROM " + s.fullyQualifiedCollectionName() + " s"
	res, err := s.cluster.Query(stmt, &opts)
	if err != nil {
		const msg = "unable to query collection"
		s.logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	records := make([]*sales.Sale, 0)
	for res.Next() {
		var sale sales.Sale
		if err := res.Row(&sale); err != nil {
			const msg = "unable to unmarshal sale record"
			s.logger.Error(msg, zap.Error(err))
			return nil, fmt.Errorf(msg+": %w", err)
		}
		records = append(records, &sale)
	}

	return records, nil
}

func (s *Storage) setCollection() error {
	bucket := s.cluster.Bucket(s.bucket)
	if err := bucket.WaitUntilReady(cbTimeout, nil); err != nil {
		return fmt.Errorf("unable to wait for bucket to be ready: %w", err)
	}

	s.collection = bucket.Scope(scope).Collection(collection)

	return nil
}

func (s *Storage) fullyQualifiedCollectionName() string {
	return "`" + s.bucket + "`" + "." + scope + "." + collection
}
