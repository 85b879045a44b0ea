///////////////////////////////////////////////////////////////////////////////
// Copyright © 2020 xx network SEZC                                          //
//                                                                           //
// Use of this source code is governed by a license that can be found in the //
// LICENSE file                                                              //
///////////////////////////////////////////////////////////////////////////////

// Handles low level database control and interfaces

package storage

import (
	"fmt"
	"github.com/pkg/errors"
	jww "github.com/spf13/jwalterweatherman"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"sync"
	"time"
)

// DbTimeout determines maximum runtime (in seconds) of specific DB queries
const DbTimeout = 1

// Interface declaration for storage methods
type database interface {
	InsertRun(run *RunRecord) error
	FinishRun(id, status string, completed uint64, finished time.Time) error
	GetRun(id string) (*RunRecord, error)

	InsertChunk(chunk *ChunkRecord) error
	GetChunks(runID string) ([]*ChunkRecord, error)
}

// DatabaseImpl Struct implementing the database Interface with an underlying DB
type DatabaseImpl struct {
	db *gorm.DB // Stored database connection
}

// MapImpl Struct implementing the database Interface with an underlying Map
type MapImpl struct {
	runs   map[string]*RunRecord
	chunks map[string][]*ChunkRecord
	nextId uint64
	sync.Mutex
}

// RunRecord represents one simulation run in Storage
type RunRecord struct {
	Id         string    `gorm:"primaryKey"`
	Parameters string    `gorm:"not null"`
	Policy     string    `gorm:"not null"`
	Total      uint64    `gorm:"not null"`
	ChunkSize  uint64    `gorm:"not null"`
	Status     string    `gorm:"not null"`
	Completed  uint64    `gorm:"not null"`
	StartedAt  time.Time `gorm:"not null"`
	FinishedAt time.Time
}

// ChunkRecord represents one computed chunk of a run in Storage
type ChunkRecord struct {
	Id          uint64        `gorm:"primaryKey;autoIncrement"`
	RunId       string        `gorm:"index;not null"`
	Begin       uint64        `gorm:"not null"`
	End         uint64        `gorm:"not null"`
	Worker      string        `gorm:"not null"`
	Class       string        `gorm:"not null"`
	Elapsed     time.Duration `gorm:"not null"`
	CompletedAt time.Time     `gorm:"not null"`
}

// Initialize the database interface with database backend
// Returns a database interface, close function, and error
func newDatabase(username, password, dbName, address, port string, devMode bool) (database, error) {
	var err error
	var db *gorm.DB

	// Connect to the database if the correct information is provided
	if address != "" && port != "" {
		// Create the database connection
		connectString := fmt.Sprintf(
			"host=%s port=%s user=%s dbname=%s sslmode=disable",
			address, port, username, dbName)
		// Handle empty database password
		if len(password) > 0 {
			connectString += fmt.Sprintf(" password=%s", password)
		}
		db, err = gorm.Open(postgres.Open(connectString), &gorm.Config{
			Logger: logger.New(jww.TRACE, logger.Config{LogLevel: logger.Info}),
		})
	}

	// Return the map-backend interface
	// in the event there is a database error or information is not provided
	if (address == "" || port == "") || err != nil {

		var failReason string
		if err != nil {
			failReason = fmt.Sprintf("Unable to initialize database backend: %+v", err)
			jww.WARN.Printf(failReason)
		} else {
			failReason = "Database backend connection information not provided"
			jww.WARN.Printf(failReason)
		}

		if !devMode {
			jww.FATAL.Panicf("Cannot run in production "+
				"without a database: %s", failReason)
		}

		defer jww.INFO.Println("Map backend initialized successfully!")
		return database(newMapImpl()), nil
	}

	// Get and configure the internal database ConnPool
	sqlDb, err := db.DB()
	if err != nil {
		return database(&DatabaseImpl{}), errors.Errorf("Unable to configure database connection pool: %+v", err)
	}
	// SetMaxIdleConns sets the maximum number of connections in the idle connection pool.
	sqlDb.SetMaxIdleConns(10)
	// SetMaxOpenConns sets the maximum number of open connections to the Database.
	sqlDb.SetMaxOpenConns(100)
	// SetConnMaxLifetime sets the maximum amount of time a connection may be reused.
	sqlDb.SetConnMaxLifetime(24 * time.Hour)

	// Initialize the database schema
	// WARNING: Order is important. Do not change without database testing
	models := []interface{}{&RunRecord{}, &ChunkRecord{}}
	for _, model := range models {
		err = db.AutoMigrate(model)
		if err != nil {
			return database(&DatabaseImpl{}), err
		}
	}

	// Build the interface
	di := &DatabaseImpl{
		db: db,
	}

	jww.INFO.Println("Database backend initialized successfully!")
	return database(di), nil
}

func newMapImpl() *MapImpl {
	return &MapImpl{
		runs:   make(map[string]*RunRecord),
		chunks: make(map[string][]*ChunkRecord),
	}
}
