// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"fmt"
	"time"

	"github.com/go-arcade/activation/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
	"gorm.io/plugin/dbresolver"
)

// IDatabase provides access to the underlying *gorm.DB
type IDatabase interface {
	Database() *gorm.DB
	Close() error
}

type gormDB struct {
	db *gorm.DB
}

// NewGormDB wraps an opened *gorm.DB
func NewGormDB(db *gorm.DB) IDatabase {
	return &gormDB{db: db}
}

func (g *gormDB) Database() *gorm.DB {
	return g.db
}

func (g *gormDB) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewDatabase opens the MySQL connection with optional DBResolver replicas
func NewDatabase(cfg Database) (IDatabase, error) {
	mysqlCfg := cfg.MySQL
	dsn := buildMySQLDSN(mysqlCfg.User, mysqlCfg.Password, mysqlCfg.Host, mysqlCfg.Port, mysqlCfg.DBName)

	var gormLogger gormlogger.Interface
	if cfg.OutPut {
		gormLogger = NewGormLoggerAdapter(gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Info,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		}, gormlogger.Info)
	} else {
		gormLogger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   dataTablePrefix,
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL connection: %w", err)
	}

	if len(mysqlCfg.Replicas) > 0 {
		replicas, err := buildDialectors(mysqlCfg.Replicas)
		if err != nil {
			return nil, fmt.Errorf("failed to build replicas dialectors: %w", err)
		}
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas:          replicas,
			TraceResolverMode: cfg.OutPut,
		}).
			SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime)).
			SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime)).
			SetMaxIdleConns(cfg.MaxIdleConns).
			SetMaxOpenConns(cfg.MaxOpenConns))
		if err != nil {
			return nil, fmt.Errorf("failed to register DBResolver plugin: %w", err)
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(GetConnMaxLifetime(cfg.MaxLifetime))
	sqlDB.SetConnMaxIdleTime(GetConnMaxIdleTime(cfg.MaxIdleTime))

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Infow("MySQL database connected", "host", mysqlCfg.Host, "replicas", len(mysqlCfg.Replicas))
	return NewGormDB(db), nil
}
