package services

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"wine-tier-service/internal/core/domain"
)

// ResolveCategories reads the training vocabularies of the categorical fields
// from the classifier when it exposes them. It never fails: ok is false when
// the vocabularies cannot be read for any reason.
func ResolveCategories(model domain.Classifier) (cats domain.FeatureCategories, ok bool) {
	provider, isProvider := model.(domain.CategoryProvider)
	if !isProvider {
		return nil, false
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", fmt.Sprint(r)).Warn("category introspection panicked, using free-text fields")
			cats, ok = nil, false
		}
	}()

	all, err := provider.Categories()
	if err != nil {
		log.WithError(err).Warn("category introspection failed, using free-text fields")
		return nil, false
	}

	cats = make(domain.FeatureCategories)
	for _, field := range domain.CategoricalFields {
		if values, found := all[field]; found {
			cats[field] = append([]string(nil), values...)
		}
	}
	return cats, true
}
