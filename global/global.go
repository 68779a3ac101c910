package global

import (
	"staffdesk/config"

	"github.com/rs/zerolog"
)

var (
	Config config.Config
	Logger zerolog.Logger
)
