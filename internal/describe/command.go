package describe

// Flattener serializes a directory into a single prompt on stdout.
type Flattener struct {
	Command string
}

// BuildArgs returns the flattener arguments for the request.
// The -c flag selects the tagged <documents> output.
func (f Flattener) BuildArgs(req Request) []string {
	args := []string{req.Directory, "-c"}
	if req.IgnoreGitignore {
		args = append(args, "--ignore-gitignore")
	}
	if req.ExcludePattern != "" {
		args = append(args, "--ignore", req.ExcludePattern)
	}
	return args
}

// LLM sends stdin plus a system prompt to a model and prints the reply.
type LLM struct {
	Command string
}

// BuildArgs returns the model tool arguments for the request.
func (l LLM) BuildArgs(req Request) []string {
	return []string{
		"-m", req.Model,
		"-s", req.SystemPrompt,
	}
}
