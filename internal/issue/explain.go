// SPDX-License-Identifier: MPL-2.0

package issue

import "errors"

var kindSuggestions = map[Kind][]string{
	KindConfiguration: {
		"Declare applicationId \"…\" (and namespace \"…\") in the module build script",
		"Run 'droidforge inspect' to see what the resolver extracted",
	},
	KindFileSystem: {
		"Check that the module directory and src/main/AndroidManifest.xml exist",
		"Verify the build directory is writable",
	},
	KindMerge: {
		"Read the merger report printed above for the conflicting element",
		"Check the tools.manifest_merger command in your droidforge.cue",
	},
	KindKeyFormat: {
		"Use a PKCS#8 RSA, EC or DSA private key (openssl pkcs8 -topk8 -outform DER)",
		"Verify the keystore alias and passwords",
	},
}

// Explain converts a pipeline failure into an ActionableError with
// kind-specific suggestions. Errors that are already actionable are returned
// unchanged.
func Explain(err error) *ActionableError {
	if err == nil {
		return nil
	}
	var ae *ActionableError
	if errors.As(err, &ae) {
		return ae
	}

	op := "build module"
	var be *BuildError
	if errors.As(err, &be) {
		op = "run task " + be.Task
	}
	return NewErrorContext().
		WithOperation(op).
		WithSuggestions(kindSuggestions[KindOf(err)]...).
		Wrap(err).
		Build()
}
