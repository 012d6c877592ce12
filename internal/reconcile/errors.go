package reconcile

import "errors"

// ErrUnknownFormation is returned when the saved formation has to be started
// but is not in the catalog.
var ErrUnknownFormation = errors.New("saved formation not in catalog")
