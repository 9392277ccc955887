package octree

import (
	"testing"

	"github.com/golang/geo/r3"
)

// --- Build ---

func benchBuild(b *testing.B, n, ncrit int) {
	b.Helper()
	bodies := plummerBodies(n, 42)
	cfg := testConfig(ncrit)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Build(bodies, cfg); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkBuild_1000_Ncrit1(b *testing.B)    { benchBuild(b, 1000, 1) }
func BenchmarkBuild_10000_Ncrit1(b *testing.B)   { benchBuild(b, 10000, 1) }
func BenchmarkBuild_10000_Ncrit8(b *testing.B)   { benchBuild(b, 10000, 8) }
func BenchmarkBuild_100000_Ncrit8(b *testing.B)  { benchBuild(b, 100000, 8) }
func BenchmarkBuild_100000_Ncrit16(b *testing.B) { benchBuild(b, 100000, 16) }

// --- Rebuild ---

func benchRebuild(b *testing.B, n, ncrit int) {
	b.Helper()
	bodies := plummerBodies(n, 42)
	tree, err := Build(bodies, testConfig(ncrit))
	if err != nil {
		b.Fatal(err)
	}
	step := r3.Vector{X: 1e-4, Y: -1e-4, Z: 2e-4}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		bodies.Translate(step)
		if err := tree.Rebuild(); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRebuild_10000_Ncrit8(b *testing.B)  { benchRebuild(b, 10000, 8) }
func BenchmarkRebuild_100000_Ncrit8(b *testing.B) { benchRebuild(b, 100000, 8) }

// --- Reuse ---

func benchReuse(b *testing.B, n, workers int) {
	b.Helper()
	bodies := plummerBodies(n, 42)
	cfg := testConfig(8)
	cfg.Workers = workers
	tree, err := Build(bodies, cfg)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Reuse()
	}
}

func BenchmarkReuse_100000_1Worker(b *testing.B)  { benchReuse(b, 100000, 1) }
func BenchmarkReuse_100000_4Workers(b *testing.B) { benchReuse(b, 100000, 4) }

// --- Sub-tree ---

func BenchmarkExtractSubtree_100000(b *testing.B) {
	bodies := plummerBodies(100000, 42)
	flagEvery(bodies, 10)
	tree, err := Build(bodies, testConfig(8))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.ExtractSubtree(flagActive, 4)
	}
}
