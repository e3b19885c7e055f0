// internal/app/bootstrap/dbdeps.go
package bootstrap

import "go.mongodb.org/mongo-driver/mongo"

// DBDeps holds the backends shared by every feature.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database
}
