package couchbase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/couchbase/gocb/v2"
	"go.uber.org/zap"

	"sales_backend/internal/returns"
)

const (
	// scope and collection in which return records are stored
	scope      = "backoffice"
	collection = "returns"

	cbTimeout = time.Second * 3
)

// Storage is a Couchbase-backed implementation of returns.Storage.
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

// Set stores the return under its ID, replacing any previous record.
func (s *Storage) Set(ret *returns.Return) error {
	if ret.ID == "" {
		return returns.ErrEmptyID
	}

	opts := gocb.UpsertOptions{
		Timeout: cbTimeout,
	}
	if _, err := s.collection.Upsert(ret.ID, ret, &opts); err != nil {
		const msg = "unable to upsert return record"
		s.logger.Error(msg, zap.String("returnId", ret.ID), zap.Error(err))
		return fmt.Errorf(msg+": %w", err)
	}

	return nil
}

// Read retrieves a return by ID. Returns returns.ErrNotFound when the
// document does not exist.
func (s *Storage) Read(id string) (*returns.Return, error) {
	res, err := s.collection.Get(id, &gocb.GetOptions{Timeout: cbTimeout})
	if err != nil {
		if errors.Is(err, gocb.ErrDocumentNotFound) {
			return nil, returns.ErrNotFound
		}
		const msg = "unable to get return record"
		s.logger.Error(msg, zap.String("returnId", id), zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	var ret returns.Return
	if err := res.Content(&ret); err != nil {
		const msg = "unable to unmarshal return record"
		s.logger.Error(msg, zap.String("returnId", id), zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	return &ret, nil
}

// GetBySaleID retrieves all returns referencing the given sale.
func (s *Storage) GetBySaleID(saleID string) ([]*returns.Return, error) {
	opts := gocb.QueryOptions{
		ScanConsistency: gocb.QueryScanConsistencyRequestPlus,
		Timeout:         cbTimeout,
		NamedParameters: map[string]interface{}{
			"$q_sale_id": saleID,
		},
	}

	stmt := "SELECT r.* FROM " + s.fullyQualifiedCollectionName() + " r WHERE `sale_id` = $q_sale_id"
	res, err := s.cluster.Query(stmt, &opts)
	if err != nil {
		const msg = "unable to query collection"
		s.logger.Error(msg, zap.Error(err))
		return nil, fmt.Errorf(msg+": %w", err)
	}

	records := make([]*returns.Return, 0)
	for res.Next() {
		var ret returns.Return
		if err := res.Row(&ret); err != nil {
			const msg = "unable to unmarshal return record"
			s.logger.Error(msg, zap.Error(err))
			return nil, fmt.Errorf(msg+": %w", err)
		}
		records = append(records, &ret)
	}

	return records, nil
}

// CountBySaleID counts the requested returns referencing the given sale.
func (s *Storage) CountBySaleID(saleID string) (int, error) {
	opts := gocb.QueryOptions{
		ScanConsistency: gocb.QueryScanConsistencyRequestPlus,
		Timeout:         cbTimeout,
		NamedParameters: map[string]interface{}{
			"$q_sale_id": saleID,
			"$q_status":  returns.StatusRequested,
		},
	}

	stmt := "SELECT COUNT(*) AS count FROM " + s.fullyQualifiedCollectionName() +
		" WHERE `sale_id` = $q_sale_id AND `status` = $q_status"
	res, err := s.cluster.Query(stmt, &opts)
	if err != nil {
		const msg = "unable to count return records"
		s.logger.Error(msg, zap.Error(err))
		return 0, fmt.Errorf(msg+": %w", err)
	}

	var row struct {
		Count int `json:"count"`
	}
	if res.Next() {
		if err := res.Row(&row); err != nil {
			const msg = "unable to unmarshal count row"
			s.logger.Error(msg, zap.Error(err))
			return 0, fmt.Errorf(msg+": %w", err)
		}
	}

	return row.Count, nil
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
