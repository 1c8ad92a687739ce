package descriptor

var ringGroup = group{
	name: "ring",
	names: []string{
		"nRing", "nRing3", "nRing4", "nRing5", "nRing6", "nRing7", "nRing8p",
		"nAromRing", "nHeteroRing", "nFusedRingBond",
		"SmallestRing", "LargestRing", "RingAtomFraction",
	},
	compute: computeRings,
}

func computeRings(v *view) []any {
	m := v.mol
	rings := v.smallestRings()

	var bySize [9]int
	aromatic, hetero := 0, 0
	smallest, largest := 0, 0
	bondUse := make([]int, m.NumBonds())
	for _, r := range rings {
		size := len(r.atoms)
		switch {
		case size >= 8:
			bySize[8]++
		case size >= 3:
			bySize[size]++
		}
		if smallest == 0 || size < smallest {
			smallest = size
		}
		if size > largest {
			largest = size
		}

		allAromatic, hasHetero := true, false
		for _, a := range r.atoms {
			if !m.Atoms[a].Aromatic {
				allAromatic = false
			}
			if m.Atoms[a].Symbol() != "C" {
				hasHetero = true
			}
		}
		if allAromatic {
			aromatic++
		}
		if hasHetero {
			hetero++
		}
		for _, b := range r.bonds {
			bondUse[b]++
		}
	}

	fused := 0
	for _, n := range bondUse {
		if n > 1 {
			fused++
		}
	}

	ringAtoms := 0
	for i := range m.Atoms {
		if m.IsRingAtom(i) {
			ringAtoms++
		}
	}

	var smallestVal, largestVal any
	if len(rings) == 0 {
		smallestVal = undefined("SmallestRing", "no rings")
		largestVal = undefined("LargestRing", "no rings")
	} else {
		smallestVal, largestVal = smallest, largest
	}

	return []any{
		len(rings), bySize[3], bySize[4], bySize[5], bySize[6], bySize[7], bySize[8],
		aromatic, hetero, fused,
		smallestVal, largestVal,
		ratio("RingAtomFraction", float64(ringAtoms), float64(m.HeavyAtomCount()), "no heavy atoms"),
	}
}
