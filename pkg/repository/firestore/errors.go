package firestore

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/horai/pkg/domain/types"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = goerr.New("not found", goerr.T(types.ErrTagNotFound))
