package telemetry

import (
	"math/bits"

	"gonum.org/v1/gonum/stat"

	"evosim/src/simulation"
	"evosim/src/world"
)

//Record holds the aggregate statistics of one tick.
type Record struct {
	RunID      string  `csv:"run_id"`
	Tick       int     `csv:"tick"`
	Population int     `csv:"population"`
	Mutations  int     `csv:"mutations"`
	Moves      int     `csv:"moves"`
	Genotypes  int     `csv:"genotypes"`
	Diversity  float64 `csv:"diversity"` //Shannon entropy of genotype frequencies, nats
	MeanBits   float64 `csv:"mean_bits"` //mean number of set bits per gene
}

//Collect builds the record for the board state after a step.
func Collect(runID string, st simulation.StepStats, b *world.Board) Record {
	r := Record{
		RunID:      runID,
		Tick:       st.Tick,
		Population: st.Population,
		Mutations:  st.Mutations,
		Moves:      st.Moves,
	}

	counts := map[uint64]int{}
	var setBits []float64
	for _, o := range b.Organisms() {
		counts[o.Genome.Hash()]++
		for i := 0; i < o.Genome.Len(); i++ {
			g, _ := o.Genome.Gene(i)
			setBits = append(setBits, float64(bits.OnesCount32(g.Value)))
		}
	}
	r.Genotypes = len(counts)
	r.Diversity = Diversity(counts)
	if len(setBits) > 0 {
		r.MeanBits = stat.Mean(setBits, nil)
	}
	return r
}

//Diversity returns the Shannon entropy of the genotype frequency distribution.
func Diversity(counts map[uint64]int) float64 {
	total := 0
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return 0
	}
	p := make([]float64, 0, len(counts))
	for _, n := range counts {
		p = append(p, float64(n)/float64(total))
	}
	return stat.Entropy(p)
}
