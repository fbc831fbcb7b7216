package catalog

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"stock-predictor/internal/models"
)

const firestoreCollection = "indices"

type indexDocument struct {
	Companies []models.Company `firestore:"companies"`
}

// LoadFirestore reads every company set from the indices/{id} documents
func LoadFirestore(ctx context.Context, client *firestore.Client) (*Catalog, error) {
	sets := make(map[IndexID][]models.Company, len(fixtureFiles))

	for _, id := range IDs() {
		doc, err := client.Collection(firestoreCollection).Doc(string(id)).Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch index %s: %w", id, err)
		}
		var data indexDocument
		if err := doc.DataTo(&data); err != nil {
			return nil, fmt.Errorf("failed to decode index %s: %w", id, err)
		}
		sets[id] = data.Companies
	}

	return New(sets)
}

// Load uses Firestore when a project is configured and falls back to the
// embedded fixtures when it is not, or when Firestore is unreachable.
// credentialsFile is optional; without it the default credentials apply.
func Load(ctx context.Context, projectID, credentialsFile string, log zerolog.Logger) (*Catalog, error) {
	if projectID == "" {
		return LoadEmbedded()
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Firestore, using embedded catalog")
		return LoadEmbedded()
	}
	defer client.Close()

	cat, err := LoadFirestore(ctx, client)
	if err != nil {
		log.Warn().Err(err).Str("project", projectID).Msg("Failed to load catalog from Firestore, using embedded catalog")
		return LoadEmbedded()
	}

	log.Info().Str("project", projectID).Msg("Catalog loaded from Firestore")
	return cat, nil
}
