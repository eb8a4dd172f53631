package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-pkgz/testutils/containers"
	"github.com/stretchr/testify/suite"

	"github.com/umputun/rev-tone/app/storage/engine"
)

// SettingsTestSuite is a test suite for the settings package
type SettingsTestSuite struct {
	suite.Suite
	dbs         map[string]*engine.SQL
	pgContainer *containers.PostgresTestContainer
	sqliteFile  string
	ctx         context.Context
}

func TestSettingsSuite(t *testing.T) {
	suite.Run(t, new(SettingsTestSuite))
}

func (s *SettingsTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.dbs = make(map[string]*engine.SQL)

	// setup SQLite with unique file-based db to avoid lock contention in parallel tests
	s.sqliteFile = filepath.Join(os.TempDir(), fmt.Sprintf("test-%d-%d.db", os.Getpid(), time.Now().UnixNano()))
	s.T().Logf("sqlite file: %s", s.sqliteFile)
	sqliteDB, err := engine.NewSqlite(s.sqliteFile, "test-group")
	s.Require().NoError(err)
	s.dbs["sqlite"] = sqliteDB

	// setup PostgreSQL if not in short test mode
	if !testing.Short() {
		s.T().Log("starting postgres container")
		ctx := context.Background()

		s.pgContainer = containers.NewPostgresTestContainerWithDB(ctx, s.T(), "test")
		s.T().Log("postgres container started")

		connStr := s.pgContainer.ConnectionString()
		pgDB, err := engine.NewPostgres(ctx, connStr, "test-group")
		s.Require().NoError(err)
		s.dbs["postgres"] = pgDB
	}
}

func (s *SettingsTestSuite) TearDownSuite() {
	for _, db := range s.dbs {
		db.Close()
	}

	// remove SQLite test file
	if s.sqliteFile != "" {
		_ = os.Remove(s.sqliteFile)
	}

	// postgres container is managed by testutils, no explicit stop needed
}

// getTestDB returns all the test databases to use for testing
func (s *SettingsTestSuite) getTestDB() []*engine.SQL {
	var result []*engine.SQL
	for _, db := range s.dbs {
		result = append(result, db)
	}
	return result
}

// SetupTest runs before each test to ensure a clean environment
func (s *SettingsTestSuite) SetupTest() {
	// drop config table before each test to ensure clean state
	for _, db := range s.dbs {
		// connections from the pool might still carry implicit transactions
		// from previous operations in slow environments, roll them back first
		if db.Type() == engine.Sqlite {
			_, _ = db.Exec("ROLLBACK")
		}

		_, err := db.Exec("DROP TABLE IF EXISTS config")
		if err != nil && !strings.Contains(err.Error(), "no such table") {
			s.Require().NoError(err)
		}
	}
}

func (s *SettingsTestSuite) TestStore_SaveLoad() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			store, err := NewStore(s.ctx, db)
			s.Require().NoError(err)

			settings := New()
			settings.InstanceID = "test-store"
			settings.Classifier.Alpha = 0.25
			settings.Classifier.Bigrams = false
			settings.Classifier.StopWords = []string{"meh"}
			settings.Files.SamplesPath = "data/samples.txt"
			settings.Server.Enabled = true
			settings.Server.AuthPasswd = "stored-passwd"
			settings.Workers = 16

			// transient values must not survive the round-trip
			settings.Transient.DataBaseURL = "sqlite:///tmp/db.sqlite"
			settings.Transient.StorageTimeout = 5 * time.Minute
			settings.Transient.ConfigDB = true
			settings.Transient.Dbg = true

			err = store.Save(s.ctx, settings)
			s.Require().NoError(err)

			exists, err := store.Exists(s.ctx)
			s.Require().NoError(err)
			s.True(exists)

			lastUpdate, err := store.LastUpdated(s.ctx)
			s.Require().NoError(err)
			s.False(lastUpdate.IsZero(), "LastUpdated time should not be zero")

			loaded, err := store.Load(s.ctx)
			s.Require().NoError(err)

			s.Equal("test-store", loaded.InstanceID)
			s.InDelta(0.25, loaded.Classifier.Alpha, 0.0001)
			s.False(loaded.Classifier.Bigrams)
			s.Equal([]string{"meh"}, loaded.Classifier.StopWords)
			s.Equal("data/samples.txt", loaded.Files.SamplesPath)
			s.True(loaded.Server.Enabled)
			s.Equal("stored-passwd", loaded.Server.AuthPasswd)
			s.Equal(16, loaded.Workers)

			s.Empty(loaded.Transient.DataBaseURL)
			s.Zero(loaded.Transient.StorageTimeout)
			s.False(loaded.Transient.ConfigDB)
			s.False(loaded.Transient.Dbg)

			err = store.Delete(s.ctx)
			s.Require().NoError(err)

			exists, err = store.Exists(s.ctx)
			s.Require().NoError(err)
			s.False(exists)

			_, err = store.Load(s.ctx)
			s.Error(err)
			s.Contains(err.Error(), "no settings found in database")
		})
	}
}

// TestStore_SaveNilSettings tests Save with nil settings
func (s *SettingsTestSuite) TestStore_SaveNilSettings() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			store, err := NewStore(s.ctx, db)
			s.Require().NoError(err)

			err = store.Save(s.ctx, nil)
			s.Error(err)
			s.Contains(err.Error(), "nil settings")
		})
	}
}

// TestStore_LoadError tests Load with error condition
func (s *SettingsTestSuite) TestStore_LoadError() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			store, err := NewStore(s.ctx, db)
			s.Require().NoError(err)

			// try loading from empty table
			_, err = store.Load(s.ctx)
			s.Error(err)
			s.Contains(err.Error(), "no settings found in database")

			// insert invalid JSON
			query := db.Adopt("INSERT INTO config (gid, data) VALUES (?, ?)")
			_, err = db.Exec(query, db.GID(), "{invalid-json")
			s.Require().NoError(err)

			_, err = store.Load(s.ctx)
			s.Error(err)
			s.Contains(err.Error(), "failed to unmarshal settings")
		})
	}
}

// TestStore_LastUpdatedError tests LastUpdated with error condition
func (s *SettingsTestSuite) TestStore_LastUpdatedError() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			store, err := NewStore(s.ctx, db)
			s.Require().NoError(err)

			_, err = store.LastUpdated(s.ctx)
			s.Error(err)
			s.Contains(err.Error(), "no settings found in database")
		})
	}
}

// TestStore_NewStoreErrors tests error conditions in NewStore
func (s *SettingsTestSuite) TestStore_NewStoreErrors() {
	_, err := NewStore(s.ctx, nil)
	s.Error(err)
	s.Contains(err.Error(), "no db provided")
}

func (s *SettingsTestSuite) TestStore_Update() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			store, err := NewStore(s.ctx, db)
			s.Require().NoError(err)

			s1 := New()
			s1.InstanceID = "initial"
			s1.Files.SamplesPath = "initial-samples.txt"

			err = store.Save(s.ctx, s1)
			s.Require().NoError(err)

			initialUpdate, err := store.LastUpdated(s.ctx)
			s.Require().NoError(err)

			// wait a bit to ensure timestamps are different
			time.Sleep(10 * time.Millisecond)

			s2 := New()
			s2.InstanceID = "updated"
			s2.Files.SamplesPath = "updated-samples.txt"

			err = store.Save(s.ctx, s2)
			s.Require().NoError(err)

			updatedTime, err := store.LastUpdated(s.ctx)
			s.Require().NoError(err)

			// sqlite timestamps are reliable here, postgres precision may differ
			if db.Type() == engine.Sqlite {
				s.True(updatedTime.After(initialUpdate))
			} else {
				s.False(updatedTime.IsZero())
			}

			loaded, err := store.Load(s.ctx)
			s.Require().NoError(err)

			s.Equal("updated", loaded.InstanceID)
			s.Equal("updated-samples.txt", loaded.Files.SamplesPath)
		})
	}
}

func (s *SettingsTestSuite) TestStore_CreateTable() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			store, err := NewStore(s.ctx, db)
			s.Require().NoError(err)

			err = store.Save(s.ctx, New())
			s.Require().NoError(err)

			var count int
			query := db.Adopt("SELECT COUNT(*) FROM config")
			err = db.Get(&count, query)
			s.Require().NoError(err)
			s.Equal(1, count)
		})
	}
}

func (s *SettingsTestSuite) TestStore_ComplexSettings() {
	for _, db := range s.getTestDB() {
		s.Run(fmt.Sprintf("with %s", db.Type()), func() {
			store, err := NewStore(s.ctx, db)
			s.Require().NoError(err)

			settings := New()
			settings.InstanceID = "complex-test"
			settings.Classifier.Alpha = 0.75
			settings.Classifier.StopWords = []string{"meh", "blah", "whatever"}
			settings.Files.SamplesPath = "data/samples.txt"
			settings.Files.DynamicPath = "data/dynamic.txt"
			settings.Files.WatchInterval = 30
			settings.Server.ListenAddr = ":9999"
			settings.Logger.Enabled = true
			settings.Logger.FileName = "predictions.log"
			settings.Logger.MaxSize = "10M"
			settings.Logger.MaxBackups = 7
			settings.Transient.StorageTimeout = time.Minute

			err = store.Save(s.ctx, settings)
			s.Require().NoError(err)

			loaded, err := store.Load(s.ctx)
			s.Require().NoError(err)

			s.Equal("complex-test", loaded.InstanceID)
			s.InDelta(0.75, loaded.Classifier.Alpha, 0.0001)
			s.Equal([]string{"meh", "blah", "whatever"}, loaded.Classifier.StopWords)
			s.Equal("data/samples.txt", loaded.Files.SamplesPath)
			s.Equal("data/dynamic.txt", loaded.Files.DynamicPath)
			s.Equal(30, loaded.Files.WatchInterval)
			s.Equal(":9999", loaded.Server.ListenAddr)
			s.True(loaded.Logger.Enabled)
			s.Equal("predictions.log", loaded.Logger.FileName)
			s.Equal("10M", loaded.Logger.MaxSize)
			s.Equal(7, loaded.Logger.MaxBackups)
			s.Zero(loaded.Transient.StorageTimeout)
		})
	}
}
