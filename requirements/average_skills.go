package requirements

import (
	"fmt"
	"math"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
	"guild-rank-system/utils"
)

// AverageSkillsChecker compares the player's average level over the
// eight levelable skills against the configured minimum.
type AverageSkillsChecker struct{}

func NewAverageSkillsChecker() *AverageSkillsChecker {
	return &AverageSkillsChecker{}
}

func (c *AverageSkillsChecker) HasRequirement(req *models.RankRequirement) bool {
	return req.AverageSkills != models.UnsetRequirement
}

func (c *AverageSkillsChecker) RequirementNote(req *models.RankRequirement) string {
	if !c.HasRequirement(req) {
		return "No average skill level requirement"
	}
	return fmt.Sprintf("Must have an average skill level of at least %s", utils.FormatNumber(int64(req.AverageSkills)))
}

func (c *AverageSkillsChecker) Check(entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, member *hypixel.ProfileMember) (Verdict, error) {
	totalExperience := 0.0
	totalLevels := 0.0
	for _, experience := range member.SkillExperience() {
		totalExperience += experience
		totalLevels += SkillLevelFromExperience(experience)
	}

	// A player with literally zero experience in every skill has the
	// skill API disabled; the API reports hidden skills as zero.
	if totalExperience == 0 {
		return Verdict{}, fmt.Errorf("%w: the player has the skill API disabled", ErrDataUnavailable)
	}

	average := totalLevels / float64(len(member.SkillExperience()))
	rank := firstClearedRank(entry, guild, func(req *models.RankRequirement) bool {
		return float64(req.AverageSkills) <= average
	})

	return Verdict{
		Status: StatusOK,
		Rank:   rank,
		Metrics: map[string]interface{}{
			"average": math.Round(average*100) / 100,
		},
	}, nil
}
