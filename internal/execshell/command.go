package execshell

const (
	gitExecutableNameConstant        = "git"
	mercurialExecutableNameConstant  = "hg"
	subversionExecutableNameConstant = "svn"
	githubCLIExecutableNameConstant  = "gh"
)

// CommandName identifies a supported external executable.
type CommandName string

// Supported executable enumerations.
const (
	CommandGit        CommandName = CommandName(gitExecutableNameConstant)
	CommandMercurial  CommandName = CommandName(mercurialExecutableNameConstant)
	CommandSubversion CommandName = CommandName(subversionExecutableNameConstant)
	CommandGitHubCLI  CommandName = CommandName(githubCLIExecutableNameConstant)
)

// CommandDetails describes a tool invocation.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines a CommandName with specific invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}
