package requirements_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"guild-rank-system/inventory"
	"guild-rank-system/requirements"
)

func TestWeaponCatalogue(t *testing.T) {
	Convey("Given the weapon catalogue", t, func() {
		Convey("Weapons resolve by full name and by alias", func() {
			byName, ok := requirements.FindWeapon("Aspect of the End")
			So(ok, ShouldBeTrue)
			So(byName.Name, ShouldEqual, "Aspect of the End")

			byAlias, ok := requirements.FindWeapon("aote")
			So(ok, ShouldBeTrue)
			So(byAlias.Name, ShouldEqual, "Aspect of the End")
		})

		Convey("Unknown names do not resolve", func() {
			_, ok := requirements.FindWeapon("Wooden Stick")
			So(ok, ShouldBeFalse)
		})

		Convey("Unicode apostrophes in admin input still match", func() {
			midas, ok := requirements.FindWeapon("Midas’ Sword")
			So(ok, ShouldBeTrue)
			So(midas.Name, ShouldEqual, "Midas' Sword")
		})

		Convey("Reforged weapons match on the name suffix", func() {
			aote, _ := requirements.FindWeapon("aote")
			So(aote.Matches(inventory.Item{Name: "Sharp Aspect of the End"}), ShouldBeTrue)
			So(aote.Matches(inventory.Item{Name: "Aspect of the Dragons"}), ShouldBeFalse)
		})

		Convey("A Midas' Sword only counts with a high enough winning bid", func() {
			midas, _ := requirements.FindWeapon("midas")

			cheap := inventory.Item{
				Name:       "Midas' Sword",
				Attributes: map[string]interface{}{"winning_bid": int32(1000000)},
			}
			expensive := inventory.Item{
				Name:       "Midas' Sword",
				Attributes: map[string]interface{}{"winning_bid": int64(51000000)},
			}
			unbid := inventory.Item{Name: "Midas' Sword"}

			So(midas.Matches(cheap), ShouldBeFalse)
			So(midas.Matches(expensive), ShouldBeTrue)
			So(midas.Matches(unbid), ShouldBeFalse)
		})
	})
}

func TestArmorCatalogue(t *testing.T) {
	Convey("Given the armor catalogue", t, func() {
		Convey("Sets resolve by name and by alias", func() {
			superior, ok := requirements.FindArmorSet("superior")
			So(ok, ShouldBeTrue)
			So(superior.Name, ShouldEqual, "Superior Dragon Armor")

			tux, ok := requirements.FindArmorSet("Elegant Tuxedo")
			So(ok, ShouldBeTrue)
			So(tux.Name, ShouldEqual, "Elegant Tuxedo")
		})

		Convey("Set membership matches on piece name suffixes", func() {
			superior, _ := requirements.FindArmorSet("superior")
			So(superior.Contains(inventory.Item{Name: "Ancient Superior Dragon Helmet"}), ShouldBeTrue)
			So(superior.Contains(inventory.Item{Name: "Strong Dragon Helmet"}), ShouldBeFalse)
		})

		Convey("Sets without a helmet never match helmets", func() {
			tux, _ := requirements.FindArmorSet("etux")
			So(tux.Helmet, ShouldBeEmpty)
			So(tux.Contains(inventory.Item{Name: "Elegant Tuxedo Jacket"}), ShouldBeTrue)
		})
	})
}

func TestPowerOrbCatalogue(t *testing.T) {
	Convey("Given the power orb catalogue", t, func() {
		Convey("Orbs resolve by full name and by prefix", func() {
			byName, ok := requirements.FindPowerOrb("Overflux Power Orb")
			So(ok, ShouldBeTrue)
			So(byName.Tier, ShouldEqual, 3)

			byPrefix, ok := requirements.FindPowerOrb("mana flux")
			So(ok, ShouldBeTrue)
			So(byPrefix.Tier, ShouldEqual, 2)
		})

		Convey("Tiers are ordered weakest first", func() {
			tiers := requirements.PowerOrbTiers()
			So(tiers, ShouldHaveLength, 3)
			for i := 1; i < len(tiers); i++ {
				So(tiers[i].Tier, ShouldBeGreaterThan, tiers[i-1].Tier)
			}
		})
	})
}
