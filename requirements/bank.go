package requirements

import (
	"fmt"

	"guild-rank-system/hypixel"
	"guild-rank-system/models"
	"guild-rank-system/utils"
)

// BankChecker compares the player's combined coins against the
// configured minimum. The purse always counts; the shared profile bank
// only counts when the banking section is exposed.
type BankChecker struct{}

func NewBankChecker() *BankChecker {
	return &BankChecker{}
}

func (c *BankChecker) HasRequirement(req *models.RankRequirement) bool {
	return req.BankCoins != models.UnsetRequirement
}

func (c *BankChecker) RequirementNote(req *models.RankRequirement) string {
	if !c.HasRequirement(req) {
		return "No bank coins requirement"
	}
	return fmt.Sprintf("Must have at least %s coins in total", utils.FormatNumber(int64(req.BankCoins)))
}

func (c *BankChecker) Check(entry *models.GuildEntry, guild *hypixel.Guild, profile *hypixel.Profile, member *hypixel.ProfileMember) (Verdict, error) {
	bank := 0.0
	if profile.Banking != nil {
		bank = profile.Banking.Balance
	}
	total := member.CoinPurse + bank

	rank := firstClearedRank(entry, guild, func(req *models.RankRequirement) bool {
		return float64(req.BankCoins) <= total
	})

	return Verdict{
		Status: StatusOK,
		Rank:   rank,
		Metrics: map[string]interface{}{
			"total": total,
			"purse": member.CoinPurse,
			"bank":  bank,
		},
	}, nil
}
