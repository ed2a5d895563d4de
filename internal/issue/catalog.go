// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigurationMissingId Id = iota + 1
	BuildScriptNotFoundId
	MainManifestNotFoundId
	ManifestMergeFailedId
	KeyFormatInvalidId
	OutputNotWritableId
	ConfigLoadFailedId
	DependencyCycleId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	kind     Kind        // error kind this entry explains
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // external documentation
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) Kind() Kind {
	return i.kind
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the markdown entry with the given glamour style ("dark",
// "light", "notty", ...).
func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also\n"
		for _, link := range i.docLinks {
			extraMd += "- <" + string(link) + ">\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configurationMissingIssue = &Issue{
		id:   ConfigurationMissingId,
		kind: KindConfiguration,
		mdMsg: `
# The module has no usable application id

droidforge reads ` + "`namespace`" + ` and ` + "`applicationId`" + ` from the module build script.
An application module needs an ` + "`applicationId`" + `; a library module needs a ` + "`namespace`" + `.

## Things you can try
- Declare both in the ` + "`android`" + ` block:
~~~groovy
android {
    namespace "com.example.app"
    defaultConfig {
        applicationId "com.example.app"
    }
}
~~~
- Values must be quoted string literals. Variables and expressions are not evaluated.
- Run ` + "`droidforge inspect`" + ` to see what was extracted.`,
	}

	buildScriptNotFoundIssue = &Issue{
		id:   BuildScriptNotFoundId,
		kind: KindFileSystem,
		mdMsg: `
# No build script found

The module directory must contain ` + "`build.gradle`" + ` or ` + "`build.gradle.kts`" + `.

## Things you can try
- Pass the module directory explicitly:
~~~
$ droidforge build ./app
~~~`,
	}

	mainManifestNotFoundIssue = &Issue{
		id:   MainManifestNotFoundId,
		kind: KindFileSystem,
		mdMsg: `
# The main manifest is missing

The manifest merge needs ` + "`src/main/AndroidManifest.xml`" + `, or the file configured by ` + "`paths.android_manifest_file`" + `.

## Things you can try
- Create the manifest, or point the path setting at the existing file:
~~~cue
paths: android_manifest_file: "manifests/AndroidManifest.xml"
~~~`,
		docLinks: []HttpLink{"https://developer.android.com/guide/topics/manifest/manifest-intro"},
	}

	manifestMergeFailedIssue = &Issue{
		id:   ManifestMergeFailedId,
		kind: KindMerge,
		mdMsg: `
# The manifest merger reported an error

The merger output is logged above. Conflicts usually come from a library manifest declaring a
different ` + "`minSdkVersion`" + ` or a duplicate component.

## Things you can try
- Check the configured merger command:
~~~
$ droidforge config show
~~~
- Add ` + "`tools:replace`" + ` or ` + "`tools:node`" + ` markers to the main manifest.`,
		docLinks: []HttpLink{"https://developer.android.com/build/manage-manifests"},
	}

	keyFormatInvalidIssue = &Issue{
		id:   KeyFormatInvalidId,
		kind: KindKeyFormat,
		mdMsg: `
# The signing key could not be decoded

Raw keys must be PKCS#8 encoded RSA, EC or DSA private keys (DER, or PEM ` + "`PRIVATE KEY`" + `).
Keystores may be JKS or PKCS#12.

## Things you can try
- Convert a legacy key:
~~~
$ openssl pkcs8 -topk8 -nocrypt -in key.pem -outform DER -out key.pk8
~~~
- Verify the alias and both passwords of the keystore.`,
		docLinks: []HttpLink{"https://developer.android.com/tools/apksigner"},
	}

	outputNotWritableIssue = &Issue{
		id:   OutputNotWritableId,
		kind: KindFileSystem,
		mdMsg: `
# A build output could not be written

droidforge writes generated sources to ` + "`<build>/gen`" + ` and the merged manifest to ` + "`<build>/bin`" + `.

## Things you can try
- Check permissions on the build directory.
- Override it with ` + "`build_dir`" + ` in ` + "`droidforge.cue`" + `.`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file did not validate against the droidforge schema.

## Things you can try
- Print the effective defaults:
~~~
$ droidforge config dump
~~~
- Unknown keys are rejected; check for typos.`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# The task graph has a cycle

Two or more tasks depend on each other. This is a programming error in the task registration.`,
	}

	issues = map[Id]*Issue{
		configurationMissingIssue.Id(): configurationMissingIssue,
		buildScriptNotFoundIssue.Id():  buildScriptNotFoundIssue,
		mainManifestNotFoundIssue.Id(): mainManifestNotFoundIssue,
		manifestMergeFailedIssue.Id():  manifestMergeFailedIssue,
		keyFormatInvalidIssue.Id():     keyFormatInvalidIssue,
		outputNotWritableIssue.Id():    outputNotWritableIssue,
		configLoadFailedIssue.Id():     configLoadFailedIssue,
		dependencyCycleIssue.Id():      dependencyCycleIssue,
	}

	// kindIssues picks the catalog entry shown for an error kind.
	kindIssues = map[Kind]Id{
		KindConfiguration: ConfigurationMissingId,
		KindFileSystem:    MainManifestNotFoundId,
		KindMerge:         ManifestMergeFailedId,
		KindKeyFormat:     KeyFormatInvalidId,
	}
)

// Values returns every catalog entry ordered by id.
func Values() []*Issue {
	ids := make([]Id, 0, len(issues))
	for id := range issues {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]*Issue, 0, len(ids))
	for _, id := range ids {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForError returns the catalog entry explaining err, or nil when the error
// kind has no entry.
func ForError(err error) *Issue {
	id, ok := kindIssues[KindOf(err)]
	if !ok {
		return nil
	}
	return issues[id]
}
