package payer

import "errors"

var ErrNotFound = errors.New("insurance payer not found")
