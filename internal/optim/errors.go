package optim

import "errors"

// ErrNoTrainable is returned when a cost depends on no trainable variable.
var ErrNoTrainable = errors.New("optim: cost depends on no trainable variable")
