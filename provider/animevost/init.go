package animevost

import (
	"github.com/anitrack-cli/anitrack/provider"
	"github.com/anitrack-cli/anitrack/source"
)

func init() {
	provider.Register(&provider.Provider{
		ID:   "animevost",
		Name: "Animevost",
		CreateSource: func() (source.Source, error) {
			return New(), nil
		},
	})
}
