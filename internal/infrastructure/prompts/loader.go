package prompts

import (
	_ "embed"
)

//go:embed hinter.txt
var HinterPrompt string
