package main

import (
	"curioApi/models"
	"fmt"

	"github.com/RediSearch/redisearch-go/redisearch"
	goredis "github.com/go-redis/redis/v8"
	"github.com/nitishm/go-rejson/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var DatabaseConnection *gorm.DB
var RedisConnection *goredis.Client
var ReJsonClient *rejson.Handler
var RediSearchClient *redisearch.Client

func SetupDatabaseConnection() {
	databaseConfig := ServiceConfig.Database

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=Etc/UTC",
		databaseConfig.Host,
		databaseConfig.User,
		databaseConfig.Password,
		databaseConfig.Database,
		databaseConfig.Port)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})

	if err != nil {
		panic(err)
	}

	sqlDb, err := db.DB()

	if err != nil {
		panic(err)
	}

	sqlDb.SetMaxIdleConns(databaseConfig.MaxIdleConnections)
	sqlDb.SetMaxOpenConns(databaseConfig.MaxOpenConnections)

	migrate := []any{
		&models.User{},
		&models.UserProfile{},
		&models.PersistentToken{},
		&models.Category{},
		&models.Image{},
		&models.UserFollow{},
		&models.Goal{},
	}

	for _, model := range migrate {
		err = db.AutoMigrate(model)
		if err != nil {
			fmt.Println(err)
		}
	}

	DatabaseConnection = db
}

func SetupRedisConnection() {
	redisConfig := ServiceConfig.Redis
	host := fmt.Sprintf("%s:%d", redisConfig.Host, redisConfig.Port)

	rh := rejson.NewReJSONHandler()
	client := goredis.NewClient(&goredis.Options{Addr: host})
	rs := redisearch.NewClient(host, "profileSearch")

	rh.SetGoRedisClient(client)

	RedisConnection = client
	ReJsonClient = rh
	RediSearchClient = rs
}
