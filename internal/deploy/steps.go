package deploy

// Step identifies one stage of the deploy pipeline.
type Step string

const (
	// StepWorkingDir verifies the project working directory.
	StepWorkingDir Step = "working-dir"
	// StepVirtualenv ensures the virtualenv exists, creating it on first deploy.
	StepVirtualenv Step = "virtualenv"
	// StepActivate binds the deploy to the virtualenv's own executables.
	StepActivate Step = "activate"
	// StepFetch downloads the remote branch tip without touching the tree.
	StepFetch Step = "fetch"
	// StepReset forces the working tree to the fetched tip.
	StepReset Step = "reset"
	// StepInstall installs the requirements manifest into the virtualenv.
	StepInstall Step = "install"
)
