package model

import "context"

const (
	// ParametersCollection holds model training parameters.
	ParametersCollection = "parameters"
	// ParametersDocumentID is the fixed id of the parameters document.
	ParametersDocumentID = "parameters"
)

// DefaultParameters are written by the create-parameters operation.
func DefaultParameters() Document {
	return Document{
		"n_estimators": 100,
		"criterion":    "gini",
	}
}

// ParametersStore persists the training parameters document.
type ParametersStore interface {
	Create(ctx context.Context, params Document) error
	Get(ctx context.Context) (Document, error)
	Update(ctx context.Context, patch Document) error
}
