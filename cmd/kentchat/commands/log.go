package commands

import (
	"github.com/btcsuite/btclog"

	"kentchat/internal/app"
)

func cmdsLog() btclog.Logger { return app.Log("CMDS") }
