package commands

import "errors"

var errConfigRequired = errors.New(`required flag "config" not set`)
