package installer

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// InstallError reports a failed package manager invocation. Files written
// before the installation are not rolled back.
type InstallError struct {
	Packages []string
	Output   string
	Err      error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("installing packages %s: %v", strings.Join(e.Packages, " "), e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// installPackages shells out to npm: one invocation for regular
// dependencies, one with -D for devDependencies. The exit status is the
// only success signal this core inspects.
func (p *Processor) installPackages(deps, devDeps []string) error {
	if len(deps) == 0 && len(devDeps) == 0 {
		return nil
	}

	p.checkSpecifiers(append(append([]string(nil), deps...), devDeps...))

	npmPath, err := exec.LookPath("npm")
	if err != nil {
		return &InstallError{
			Packages: append(append([]string(nil), deps...), devDeps...),
			Err:      fmt.Errorf("npm not found in PATH: %w", err),
		}
	}

	if len(deps) > 0 {
		fmt.Fprintf(p.out, "  Installing dependencies: %s\n", strings.Join(deps, " "))
		if err := p.runNpm(npmPath, deps, false); err != nil {
			return err
		}
	}
	if len(devDeps) > 0 {
		fmt.Fprintf(p.out, "  Installing devDependencies: %s\n", strings.Join(devDeps, " "))
		if err := p.runNpm(npmPath, devDeps, true); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) runNpm(npmPath string, packages []string, dev bool) error {
	args := []string{"install"}
	if dev {
		args = append(args, "-D")
	}
	args = append(args, packages...)

	cmd := exec.Command(npmPath, args...)
	cmd.Dir = p.cfg.RootDir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return &InstallError{
			Packages: packages,
			Output:   string(output),
			Err:      err,
		}
	}
	return nil
}

// checkSpecifiers parses "pkg@<range>" specifiers and warns about version
// ranges semver cannot parse. Warnings only; npm is the authority on what
// it accepts.
func (p *Processor) checkSpecifiers(specs []string) {
	for _, spec := range specs {
		// Scoped packages start with "@", so only a later "@" separates
		// the version range.
		idx := strings.LastIndex(spec, "@")
		if idx <= 0 {
			continue
		}
		rangeStr := spec[idx+1:]
		if rangeStr == "" || rangeStr == "latest" {
			continue
		}
		if _, err := semver.NewConstraint(rangeStr); err != nil {
			fmt.Fprintf(p.out, "  warning: %s: unrecognized version range %q\n", spec[:idx], rangeStr)
		}
	}
}
