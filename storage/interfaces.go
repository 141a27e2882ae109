package storage

import (
	"errors"

	"influencer-dashboard/models"
)

// InfluencerWriter is the interface any export backend must satisfy.
type InfluencerWriter interface {
	Write(records []*models.Influencer) error
	Close() error
}

// WriteAll writes records to every writer and closes all of them, even when a
// write fails. Writing stops at the first failure.
func WriteAll(records []*models.Influencer, writers ...InfluencerWriter) (err error) {
	defer func() {
		for _, w := range writers {
			err = errors.Join(err, w.Close())
		}
	}()
	for _, w := range writers {
		if err := w.Write(records); err != nil {
			return err
		}
	}
	return nil
}
