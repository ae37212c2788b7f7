// SPDX-License-Identifier: EPL-2.0

package audreact

// Tracks selects single or multi source mode.
type Tracks interface {
	tracks()
}

// Single is one locator, a file path or URL.
type Single string

// Multiple maps source ids to locators. All sources load and start together.
type Multiple map[string]string

func (Single) tracks()   {}
func (Multiple) tracks() {}

// SingleID is the id of the only source in single mode.
const SingleID = "main"
