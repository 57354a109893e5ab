package bootstrap

import (
	"context"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
)

// InitFirestore obtains the Firestore client through the Firebase app so the
// project id and credentials come from one place.
func InitFirestore(ctx context.Context, projectID string) (*firestore.Client, error) {
	var conf *firebase.Config
	if projectID != "" {
		conf = &firebase.Config{ProjectID: projectID}
	}
	app, err := firebase.NewApp(ctx, conf)
	if err != nil {
		return nil, err
	}
	return app.Firestore(ctx)
}
