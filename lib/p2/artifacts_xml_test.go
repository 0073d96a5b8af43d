// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package p2

import (
	"net/url"
	"strings"
	"testing"
)

const sampleArtifactsXML = `<?xml version='1.0' encoding='UTF-8'?>
<?artifactRepository version='1.1.0'?>
<repository name='Example Releases' type='org.eclipse.equinox.p2.artifact.repository.simpleRepository' version='1'>
  <properties size='1'>
    <property name='p2.timestamp' value='1767225600000'/>
  </properties>
  <mappings size='4'>
    <rule filter='(&amp; (classifier=osgi.bundle) (format=packed))' output='${repoUrl}/plugins/${id}_${version}.jar.pack.gz'/>
    <rule filter='(&amp; (classifier=osgi.bundle))' output='${repoUrl}/plugins/${id}_${version}.jar'/>
    <rule filter='(&amp; (classifier=binary))' output='${repoUrl}/binary/${id}_${version}'/>
    <rule filter='(&amp; (classifier=org.eclipse.update.feature))' output='${repoUrl}/features/${id}_${version}.jar'/>
  </mappings>
  <artifacts size='5'>
    <artifact classifier='osgi.bundle' id='org.example.core' version='2.1.0.v20260101'>
      <properties size='4'>
        <property name='artifact.size' value='40960'/>
        <property name='download.size' value='40961'/>
        <property name='download.md5' value='0cc175b9c0f1b6a831c399e269772661'/>
        <property name='download.checksum.sha-256' value='ca978112ca1bbdcafac231b39a23dc4da786eff8147c4e72b9807785afee48bb'/>
      </properties>
    </artifact>
    <artifact classifier='osgi.bundle' id='org.example.core' version='2.1.0.v20260101'>
      <properties size='1'>
        <property name='format' value='packed'/>
      </properties>
    </artifact>
    <artifact classifier='org.eclipse.update.feature' id='org.example.feature' version='2.1.0'>
      <properties size='1'>
        <property name='artifact.size' value='1024'/>
      </properties>
    </artifact>
    <artifact classifier='binary' id='org.example.launcher' version='1.0.0'/>
    <artifact classifier='osgi.bundle' id='org.example.nosize' version='0.1.0'/>
  </artifacts>
</repository>
`

func TestXMLArtifactsParser(t *testing.T) {
	base, err := url.Parse("https://download.example.org/releases/2026-03/")
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := XMLArtifactsParser{}.ParseArtifacts(strings.NewReader(sampleArtifactsXML), base)
	if err != nil {
		t.Fatalf("ParseArtifacts: %v", err)
	}
	if len(artifacts) != 3 {
		t.Fatalf("got %d artifacts, want 3 (packed and binary skipped): %+v", len(artifacts), artifacts)
	}

	core := artifacts[0]
	if core.Type != Bundle || core.ID != "org.example.core" || core.Version != "2.1.0.v20260101" {
		t.Errorf("core = %+v", core)
	}
	if want := "https://download.example.org/releases/2026-03/plugins/org.example.core_2.1.0.v20260101.jar"; core.URI != want {
		t.Errorf("core URI = %s, want %s", core.URI, want)
	}
	if core.Size != 40961 {
		t.Errorf("core Size = %d, want download.size 40961", core.Size)
	}
	if core.MD5 != "0cc175b9c0f1b6a831c399e269772661" || !strings.HasPrefix(core.SHA256, "ca978112") {
		t.Errorf("core checksums = %q / %q", core.MD5, core.SHA256)
	}
	if core.Properties["artifact.size"] != "40960" {
		t.Errorf("core properties = %v", core.Properties)
	}

	feature := artifacts[1]
	if feature.Type != Feature || feature.Size != 1024 {
		t.Errorf("feature = %+v", feature)
	}
	if want := "https://download.example.org/releases/2026-03/features/org.example.feature_2.1.0.jar"; feature.URI != want {
		t.Errorf("feature URI = %s, want %s", feature.URI, want)
	}

	if artifacts[2].ID != "org.example.nosize" || artifacts[2].Size != 0 || artifacts[2].Properties != nil {
		t.Errorf("nosize = %+v", artifacts[2])
	}
}

func TestXMLArtifactsParserSkipsUnmapped(t *testing.T) {
	document := `<repository>
  <mappings><rule filter='(classifier=org.eclipse.update.feature)' output='${repoUrl}/features/${id}.jar'/></mappings>
  <artifacts><artifact classifier='osgi.bundle' id='unmapped' version='1'/></artifacts>
</repository>`
	base, _ := url.Parse("https://example.org/repo/")

	artifacts, err := XMLArtifactsParser{}.ParseArtifacts(strings.NewReader(document), base)
	if err != nil {
		t.Fatalf("ParseArtifacts: %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("artifacts = %+v, want none", artifacts)
	}
}

func TestXMLArtifactsParserRelativeOutput(t *testing.T) {
	document := `<repository>
  <mappings><rule filter='(classifier=osgi.bundle)' output='plugins/${id}_${version}.jar'/></mappings>
  <artifacts><artifact classifier='osgi.bundle' id='a' version='1'/></artifacts>
</repository>`
	base, _ := url.Parse("https://example.org/repo/")

	artifacts, err := XMLArtifactsParser{}.ParseArtifacts(strings.NewReader(document), base)
	if err != nil {
		t.Fatalf("ParseArtifacts: %v", err)
	}
	if len(artifacts) != 1 || artifacts[0].URI != "https://example.org/repo/plugins/a_1.jar" {
		t.Errorf("artifacts = %+v", artifacts)
	}
}

func TestXMLArtifactsParserErrors(t *testing.T) {
	base, _ := url.Parse("https://example.org/repo/")
	for name, document := range map[string]string{
		"truncated":  "<repository><artifacts>",
		"empty":      "",
		"bad filter": `<repository><mappings><rule filter='(classifier=osgi.bundle' output='x'/></mappings></repository>`,
	} {
		if _, err := (XMLArtifactsParser{}).ParseArtifacts(strings.NewReader(document), base); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestXMLCompositeParser(t *testing.T) {
	document := `<?xml version='1.0' encoding='UTF-8'?>
<?compositeArtifactRepository version='1.0.0'?>
<repository name='Example Composite' type='org.eclipse.equinox.internal.p2.artifact.repository.CompositeArtifactRepository' version='1.0.0'>
  <properties size='1'><property name='p2.atomic.composite.loading' value='true'/></properties>
  <children size='3'>
    <child location='2026-03'/>
    <child location=''/>
    <child location='https://mirror.example.org/extras/'/>
  </children>
</repository>`
	location, _ := url.Parse("https://download.example.org/releases/compositeArtifacts.xml")

	composite, err := XMLCompositeParser{}.ParseComposite(strings.NewReader(document), location)
	if err != nil {
		t.Fatalf("ParseComposite: %v", err)
	}
	if composite.Base.String() != "https://download.example.org/releases/" {
		t.Errorf("Base = %s", composite.Base)
	}
	want := []string{"2026-03", "https://mirror.example.org/extras/"}
	if len(composite.Children) != len(want) {
		t.Fatalf("Children = %v, want %v", composite.Children, want)
	}
	for index := range want {
		if composite.Children[index] != want[index] {
			t.Errorf("Children[%d] = %s, want %s", index, composite.Children[index], want[index])
		}
	}
}
