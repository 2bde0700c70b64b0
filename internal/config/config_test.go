package config

import (
	"testing"

	"holdem-server/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("HOLDEM_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("HOLDEM_GAME_BIG_BLIND", "100")
	defer clear2()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal(":4000", cfg.Addr)
	a.Equal(25, cfg.Game.SmallBlind)
	a.Equal(100, cfg.Game.BigBlind)
	a.Equal(2000, cfg.Game.StartingChips)

	// ensure we aren't using a pointer
	cfg.Addr = "bad"
	a.Equal(":4000", Instance().Addr)
}

func TestDefaults(t *testing.T) {
	clear := util.SetEnv("HOLDEM_CONFIG_FILE", "testdata/does-not-exist.yaml")
	defer clear()

	a := assert.New(t)
	a.NoError(Load())
	cfg := Instance()
	a.Equal(":3001", cfg.Addr)
	a.Equal(10, cfg.Game.SmallBlind)
	a.Equal(20, cfg.Game.BigBlind)
	a.Equal(1000, cfg.Game.StartingChips)
	a.Equal(6, cfg.Game.MaxPlayers)
}
