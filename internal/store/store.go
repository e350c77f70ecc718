// Package store persists named collections as whole JSON documents, one row
// per collection. Writers read the full document, mutate it in memory and
// write it back; two concurrent writers race and the last snapshot wins.
// That weak-consistency behavior is part of the service contract.
package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Collection names used by the application.
const (
	Users            = "users"
	Works            = "works"
	Profiles         = "profiles"
	BlockedTokens    = "blockedTokens"
	Webhooks         = "webhooks"
	DeletionRequests = "deletionRequests"
)

// Names lists every collection, in backup order.
var Names = []string{Users, Works, Profiles, BlockedTokens, Webhooks, DeletionRequests}

// Backend reads and writes collection documents.
type Backend interface {
	// Get unmarshals the named collection into out (a pointer to a map).
	// A collection that was never written decodes as an empty map.
	Get(name string, out any) error
	// Set marshals doc and replaces the named collection wholesale.
	Set(name string, doc any) error
}

// CollectionRow is the storage row for one collection document.
type CollectionRow struct {
	Name     string `gorm:"primaryKey;size:64"`
	Document string `gorm:"type:longtext"`
}

func (CollectionRow) TableName() string { return "collections" }

// Store is the MySQL-backed Backend.
type Store struct{ db *gorm.DB }

func New(db *gorm.DB) *Store { return &Store{db: db} }

func (s *Store) Get(name string, out any) error {
	var row CollectionRow
	if err := s.db.First(&row, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return json.Unmarshal([]byte("{}"), out)
		}
		return fmt.Errorf("load collection %q: %w", name, err)
	}
	doc := row.Document
	if doc == "" {
		doc = "{}"
	}
	if err := json.Unmarshal([]byte(doc), out); err != nil {
		return fmt.Errorf("decode collection %q: %w", name, err)
	}
	return nil
}

func (s *Store) Set(name string, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode collection %q: %w", name, err)
	}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document"}),
	}).Create(&CollectionRow{Name: name, Document: string(raw)}).Error
	if err != nil {
		return fmt.Errorf("save collection %q: %w", name, err)
	}
	return nil
}
