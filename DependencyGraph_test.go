package dbmigrate

import (
	"errors"
	"strings"
	"testing"

	"github.com/ljpx/test"
)

func TestBuildDependencyGraphResolvesDeclaredDependencies(t *testing.T) {
	// Arrange.
	scripts := []ScriptArtifact{
		script("dim_person", "stg__person", "stg__address"),
		script("stg__person"),
		script("stg__address"),
	}

	// Act.
	graph, err := BuildDependencyGraph(scripts)

	// Assert.
	test.That(t, err).IsNil()
	test.That(t, graph.Len()).IsEqualTo(3)
	test.That(t, joined(graph.Names())).IsEqualTo("dim_person,stg__address,stg__person")
	test.That(t, joined(graph.DependenciesOf("dim_person"))).IsEqualTo("stg__address,stg__person")
	test.That(t, len(graph.DependenciesOf("stg__person"))).IsEqualTo(0)

	found, ok := graph.Script("stg__person")
	test.That(t, ok).IsEqualTo(true)
	test.That(t, found.Name).IsEqualTo("stg__person")
}

func TestBuildDependencyGraphRejectsUnresolvedDependency(t *testing.T) {
	// Arrange.
	scripts := []ScriptArtifact{
		script("dim_person", "stg__person", "stg__missing"),
		script("stg__person"),
	}

	// Act.
	graph, err := BuildDependencyGraph(scripts)

	// Assert.
	test.That(t, graph == nil).IsEqualTo(true)
	test.That(t, errors.Is(err, ErrUnresolvedDependency)).IsEqualTo(true)
	test.That(t, strings.Contains(err.Error(), "stg__missing")).IsEqualTo(true)

	artifact, _ := FailedArtifact(err)
	test.That(t, artifact).IsEqualTo("dim_person")
}

func TestBuildDependencyGraphReportsEveryUnresolvedDependency(t *testing.T) {
	// Arrange.
	scripts := []ScriptArtifact{
		script("a", "missing_one"),
		script("b", "missing_two"),
	}

	// Act.
	_, err := BuildDependencyGraph(scripts)

	// Assert.
	test.That(t, strings.Contains(err.Error(), "missing_one")).IsEqualTo(true)
	test.That(t, strings.Contains(err.Error(), "missing_two")).IsEqualTo(true)
}

func TestBuildDependencyGraphRejectsDuplicateNames(t *testing.T) {
	// Act.
	_, err := BuildDependencyGraph([]ScriptArtifact{script("a"), script("a")})

	// Assert.
	test.That(t, errors.Is(err, ErrDuplicateName)).IsEqualTo(true)
}
