package core

import (
	"github.com/rotisserie/eris"
)

var ErrLoggerClosed = eris.New("the log file was already closed")
