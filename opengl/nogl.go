//go:build nogl
// +build nogl

package opengl

import (
	"fmt"
	"os"

	"github.com/PrincetonUniversity/particlelife"
)

// Run returns an error explaining that OpenGL support is disabled.
func Run(s *particlelife.Simulation, conf *Config) error {
	return fmt.Errorf("%s was built without OpenGL support\n"+
		"You must specify an output file ('Output' key in the config file).", os.Args[0])
}
