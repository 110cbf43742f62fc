package requirements

// skillExperienceSteps is the cumulative-per-level experience ladder
// for the regular skills, capped at level 50. The late steps grow
// unevenly, so the whole ladder is spelled out.
var skillExperienceSteps = []float64{
	50, 125, 200, 300, 500, 750, 1000, 1500, 2000, 3500,
	5000, 7500, 10000, 15000, 20000, 30000, 50000, 75000, 100000, 200000,
	300000, 400000, 500000, 600000, 700000, 800000, 900000, 1000000, 1100000, 1200000,
	1300000, 1400000, 1500000, 1600000, 1700000, 1800000, 1900000, 2000000, 2100000, 2200000,
	2300000, 2400000, 2500000, 2600000, 2750000, 2900000, 3100000, 3400000, 3700000, 4000000,
}

// SkillLevelFromExperience converts raw skill experience into a
// fractional level, where the fraction is the progress through the
// current level's step.
func SkillLevelFromExperience(experience float64) float64 {
	level := 0.0
	for _, step := range skillExperienceSteps {
		experience -= step
		if experience < 0 {
			return level + (1 - (experience*-1)/step)
		}
		level++
	}
	return level
}
