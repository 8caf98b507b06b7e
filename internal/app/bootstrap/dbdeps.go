// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	donationstore "github.com/sevahub/sevahub/internal/app/store/donations"
	eventstore "github.com/sevahub/sevahub/internal/app/store/events"
	ngostore "github.com/sevahub/sevahub/internal/app/store/ngos"
	userstore "github.com/sevahub/sevahub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Users     *userstore.Store
	NGOs      *ngostore.Store
	Events    *eventstore.Store
	Donations *donationstore.Store
}
