///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// Handles the database ORM for the run ledger

package storage

import (
	"context"
	"errors"
	jww "github.com/spf13/jwalterweatherman"
	"gorm.io/gorm"
	"time"
)

// Helper for forcing panics in the event of a CDE, otherwise acts as a pass-through
func catchCde(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		jww.FATAL.Panicf("Database call timed out: %+v", err.Error())
	}
	return err
}

// InsertRun adds a new RunRecord to the Database
func (d *DatabaseImpl) InsertRun(run *RunRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), DbTimeout*time.Second)
	defer cancel()

	return catchCde(d.db.WithContext(ctx).Create(run).Error)
}

// FinishRun sets the outcome of a RunRecord in the Database
func (d *DatabaseImpl) FinishRun(id, status string, completed uint64, finished time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), DbTimeout*time.Second)
	defer cancel()

	result := d.db.WithContext(ctx).Model(&RunRecord{Id: id}).
		Updates(map[string]interface{}{
			"status":      status,
			"completed":   completed,
			"finished_at": finished,
		})
	if result.Error != nil {
		return catchCde(result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetRun returns a RunRecord from Database with the given ID
// Or an error if a matching RunRecord does not exist
func (d *DatabaseImpl) GetRun(id string) (*RunRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DbTimeout*time.Second)
	defer cancel()

	result := &RunRecord{Id: id}
	err := d.db.WithContext(ctx).Take(result).Error
	return result, catchCde(err)
}

// InsertChunk adds a ChunkRecord to the Database. The run must exist.
func (d *DatabaseImpl) InsertChunk(chunk *ChunkRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), DbTimeout*time.Second)
	defer cancel()

	// Build a transaction so the run check and the insert agree
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Take(&RunRecord{Id: chunk.RunId}).Error; err != nil {
			return err
		}
		return tx.Create(chunk).Error
	})
	return catchCde(err)
}

// GetChunks returns every ChunkRecord of a run ordered by begin
func (d *DatabaseImpl) GetChunks(runID string) ([]*ChunkRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DbTimeout*time.Second)
	defer cancel()

	var chunks []*ChunkRecord
	err := d.db.WithContext(ctx).Where(&ChunkRecord{RunId: runID}).
		Order("begin").Find(&chunks).Error
	return chunks, catchCde(err)
}
