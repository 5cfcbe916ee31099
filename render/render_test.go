package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jobsync/jobsync/common/gerror"
	"github.com/jobsync/jobsync/common/models"
	"github.com/jobsync/jobsync/common/xmlenc"
)

// The full document for a simple job is pinned byte for byte: the document is
// the compatibility contract with the CI server.
func TestProjectEndToEnd(t *testing.T) {
	b, err := models.NewJobBuilder("deploy")
	require.NoError(t, err)
	require.NoError(t, b.Shell("echo hi"))
	require.NoError(t, b.StringParameter("ENV", "", ""))
	require.NoError(t, b.Archive("out/**"))
	job, err := b.Build()
	require.NoError(t, err)

	doc, err := Project(job)
	require.NoError(t, err)

	expected := `<?xml version='1.0' encoding='UTF-8'?>
<project>
  <properties>
    <hudson.model.ParametersDefinitionProperty>
      <parameterDefinitions>
        <hudson.model.StringParameterDefinition>
          <name>ENV</name>
          <description></description>
          <defaultValue></defaultValue>
        </hudson.model.StringParameterDefinition>
      </parameterDefinitions>
    </hudson.model.ParametersDefinitionProperty>
  </properties>
  <publishers>
    <hudson.tasks.ArtifactArchiver>
      <artifacts>out/**</artifacts>
      <latestOnly>false</latestOnly>
    </hudson.tasks.ArtifactArchiver>
  </publishers>
  <scm class="hudson.scm.NullSCM"></scm>
  <triggers class="vector"></triggers>
  <builders>
    <hudson.tasks.Shell>
      <command>echo hi</command>
    </hudson.tasks.Shell>
  </builders>
  <actions></actions>
  <description></description>
  <keepDependencies>false</keepDependencies>
  <canRoam>true</canRoam>
  <disabled>false</disabled>
  <blockBuildWhenDownstreamBuilding>false</blockBuildWhenDownstreamBuilding>
  <blockBuildWhenUpstreamBuilding>false</blockBuildWhenUpstreamBuilding>
  <concurrentBuild>false</concurrentBuild>
</project>
`
	require.Equal(t, expected, string(doc))
}

func TestProjectIsDeterministic(t *testing.T) {
	b, err := models.NewJobBuilder("deploy")
	require.NoError(t, err)
	require.NoError(t, b.Subversion("https://svn.example.com/repo/trunk"))
	require.NoError(t, b.Shell("make"))
	require.NoError(t, b.Archive("build/**"))
	require.NoError(t, b.TriggerDownstream("smoke-test", "STAGE=post"))
	job, err := b.Build()
	require.NoError(t, err)

	first, err := Project(job)
	require.NoError(t, err)
	second, err := Project(job)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestProjectSubversionIncludesAllFilterPlaceholders(t *testing.T) {
	b, err := models.NewJobBuilder("checkout")
	require.NoError(t, err)
	require.NoError(t, b.Subversion("https://svn.example.com/repo/trunk"))
	job, err := b.Build()
	require.NoError(t, err)

	doc, err := Project(job)
	require.NoError(t, err)
	text := string(doc)

	require.Contains(t, text, `<scm class="hudson.scm.SubversionSCM">`)
	require.Contains(t, text, "<remote>https://svn.example.com/repo/trunk</remote>")
	require.Contains(t, text, "<local>.</local>")
	for _, placeholder := range []string{
		"<excludedRegions></excludedRegions>",
		"<includedRegions></includedRegions>",
		"<excludedUsers></excludedUsers>",
		"<excludedRevprop></excludedRevprop>",
		"<excludedCommitMessages></excludedCommitMessages>",
	} {
		require.Contains(t, text, placeholder)
	}
	require.Contains(t, text, `<workspaceUpdater class="hudson.scm.subversion.UpdateUpdater">`)

	// The installed default trigger renders inside the vector-typed container.
	require.Contains(t, text, `<triggers class="vector">`)
	require.Contains(t, text, "<spec>*/5 * * * *</spec>")
}

func TestProjectSectionOrder(t *testing.T) {
	b, err := models.NewJobBuilder("ordered")
	require.NoError(t, err)
	b.SetCustomWorkspace("/var/lib/jobs/ordered")
	require.NoError(t, b.StringParameter("ENV", "prod", ""))
	require.NoError(t, b.Subversion("https://svn.example.com/repo/trunk"))
	require.NoError(t, b.Shell("make"))
	require.NoError(t, b.Archive("out/**"))
	require.NoError(t, b.TriggerDownstream("downstream-job", "A=1"))
	job, err := b.Build()
	require.NoError(t, err)

	doc, err := Project(job)
	require.NoError(t, err)
	text := string(doc)

	sections := []string{
		"<properties>",
		"<customWorkspace>/var/lib/jobs/ordered</customWorkspace>",
		"<publishers>",
		"<hudson.tasks.ArtifactArchiver>",
		"<hudson.plugins.parameterizedtrigger.BuildTrigger>",
		`<scm class="hudson.scm.SubversionSCM">`,
		`<triggers class="vector">`,
		"<builders>",
		"<actions></actions>",
		"<concurrentBuild>false</concurrentBuild>",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(text, section)
		require.GreaterOrEqual(t, idx, 0, "missing section %q", section)
		require.Greater(t, idx, last, "section %q out of order", section)
		last = idx
	}
}

func TestProjectPublisherOrderArchiversFirst(t *testing.T) {
	b, err := models.NewJobBuilder("publish-order")
	require.NoError(t, err)
	// Declare the downstream trigger before the archiver; archivers still
	// render first within the publishers block.
	require.NoError(t, b.TriggerDownstream("downstream-job", ""))
	require.NoError(t, b.Archive("out/**"))
	job, err := b.Build()
	require.NoError(t, err)

	doc, err := Project(job)
	require.NoError(t, err)
	text := string(doc)

	archiverIdx := strings.Index(text, "<hudson.tasks.ArtifactArchiver>")
	triggerIdx := strings.Index(text, "<hudson.plugins.parameterizedtrigger.BuildTrigger>")
	require.GreaterOrEqual(t, archiverIdx, 0)
	require.GreaterOrEqual(t, triggerIdx, 0)
	require.Less(t, archiverIdx, triggerIdx)
}

func TestProjectDownstreamTriggerPayload(t *testing.T) {
	b, err := models.NewJobBuilder("upstream")
	require.NoError(t, err)
	require.NoError(t, b.TriggerDownstream("smoke-test", "STAGE=post"))
	job, err := b.Build()
	require.NoError(t, err)

	doc, err := Project(job)
	require.NoError(t, err)
	text := string(doc)

	require.Contains(t, text, "<projects>smoke-test</projects>")
	require.Contains(t, text, "<condition>SUCCESS</condition>")
	require.Contains(t, text, "<triggerWithNoParameters>false</triggerWithNoParameters>")
	require.Contains(t, text, "<properties>STAGE=post</properties>")
}

func TestProjectRawFragmentsRenderLast(t *testing.T) {
	b, err := models.NewJobBuilder("raw")
	require.NoError(t, err)
	b.AppendXML(func(e *xmlenc.Emitter) error {
		return e.Raw("<jdk>(System)</jdk>")
	})
	b.AppendXML(func(e *xmlenc.Emitter) error {
		return e.TextElement("assignedNode", "linux")
	})
	job, err := b.Build()
	require.NoError(t, err)

	doc, err := Project(job)
	require.NoError(t, err)
	text := string(doc)

	jdkIdx := strings.Index(text, "<jdk>(System)</jdk>")
	nodeIdx := strings.Index(text, "<assignedNode>linux</assignedNode>")
	trailerIdx := strings.Index(text, "<concurrentBuild>")
	require.GreaterOrEqual(t, jdkIdx, 0)
	require.GreaterOrEqual(t, nodeIdx, 0)
	require.Greater(t, jdkIdx, trailerIdx, "raw fragments must follow the fixed trailer")
	require.Greater(t, nodeIdx, jdkIdx, "raw fragments must keep registration order")
}

func TestProjectFailedFragmentNamesJob(t *testing.T) {
	b, err := models.NewJobBuilder("broken")
	require.NoError(t, err)
	b.AppendXML(func(e *xmlenc.Emitter) error {
		return gerror.NewErrInternal("boom", nil)
	})
	job, err := b.Build()
	require.NoError(t, err)

	doc, err := Project(job)
	require.Nil(t, doc)
	require.Error(t, err)
	require.True(t, gerror.IsRenderFailed(err))
	require.Contains(t, err.Error(), `"broken"`)
}
