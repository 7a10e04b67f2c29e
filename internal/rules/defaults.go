package rules

// Default returns a fresh copy of the built-in ruleset. Keywords cover the
// Arabic and English wording common in Gulf BOQs.
func Default() *Ruleset {
	return &Ruleset{
		Phases: []Phase{
			{
				ID:       Excavation,
				Name:     "Excavation & Earthworks",
				Keywords: []string{"حفر", "ردم", "إحلال", "excavat", "backfill", "earthwork", "trench", "dewater"},
			},
			{
				ID:        Foundation,
				Name:      "Foundations",
				Keywords:  []string{"أساسات", "أساس", "قواعد", "لبشة", "خوازيق", "ميدات", "foundation", "footing", "raft", "pile", "tie beam", "grade beam"},
				DependsOn: []PhaseID{Excavation},
			},
			{
				ID:        Structure,
				Name:      "Structural Frame",
				Keywords:  []string{"أعمدة", "عمود", "كمرات", "جسور", "بلاطات", "سقف خرساني", "درج", "column", "beam", "slab", "stair", "shear wall"},
				DependsOn: []PhaseID{Foundation},
			},
			{
				ID:        Walls,
				Name:      "Masonry Walls",
				Keywords:  []string{"بلوك", "طوب", "جدران", "حوائط", "مباني", "block", "brick", "masonry", "partition", "wall"},
				DependsOn: []PhaseID{Structure},
			},
			{
				ID:        MEPRough,
				Name:      "MEP Rough-in",
				Keywords:  []string{"تمديدات", "مواسير", "كهرباء", "سباكة", "صرف", "conduit", "rough-in", "pipe", "cable", "duct", "drainage", "plumbing", "electrical"},
				DependsOn: []PhaseID{Walls},
			},
			{
				ID:        Plastering,
				Name:      "Plastering",
				Keywords:  []string{"لياسة", "محارة", "plaster", "render", "screed"},
				DependsOn: []PhaseID{Walls, MEPRough},
			},
			{
				ID:        Flooring,
				Name:      "Flooring & Tiling",
				Keywords:  []string{"بلاط", "أرضيات", "رخام", "سيراميك", "بورسلين", "floor", "tile", "marble", "ceramic", "porcelain", "epoxy"},
				DependsOn: []PhaseID{Plastering},
			},
			{
				ID:        Finishes,
				Name:      "Finishes",
				Keywords:  []string{"دهان", "جبس", "عزل", "paint", "gypsum", "ceiling", "finish", "waterproof", "insulation"},
				DependsOn: []PhaseID{Flooring},
			},
			{
				ID:        DoorsWindows,
				Name:      "Doors & Windows",
				Keywords:  []string{"باب", "أبواب", "نوافذ", "شبابيك", "ألمنيوم", "زجاج", "door", "window", "glazing", "alumin"},
				DependsOn: []PhaseID{Plastering},
			},
			{
				ID:        MEPFinal,
				Name:      "MEP Final Fix",
				Keywords:  []string{"تركيب", "أجهزة صحية", "إنارة", "مفاتيح", "تكييف", "fixture", "lighting", "sanitary", "switch", "hvac", "air condition", "commissioning"},
				DependsOn: []PhaseID{Finishes, DoorsWindows},
			},
			{
				ID:        Exterior,
				Name:      "Exterior & Facade",
				Keywords:  []string{"واجهات", "واجهة", "كلادينج", "حجر", "facade", "cladding", "external", "exterior"},
				DependsOn: []PhaseID{Walls},
			},
			{
				ID:        SiteWorks,
				Name:      "Site Works",
				Keywords:  []string{"أسفلت", "رصف", "تنسيق", "أسوار", "سور", "asphalt", "paving", "landscap", "fence", "kerb", "irrigation"},
				DependsOn: []PhaseID{Exterior},
			},
		},
		DefaultPhase: Finishes,
		// First match wins, so narrower activities sit above broader ones.
		Productivity: []Rate{
			{Keyword: "باب", Rate: 4, Unit: "no"},
			{Keyword: "door", Rate: 4, Unit: "no"},
			{Keyword: "نوافذ", Rate: 5, Unit: "no"},
			{Keyword: "شباك", Rate: 5, Unit: "no"},
			{Keyword: "window", Rate: 5, Unit: "no"},
			{Keyword: "حفر", Rate: 50, Unit: "m3"},
			{Keyword: "excavat", Rate: 50, Unit: "m3"},
			{Keyword: "ردم", Rate: 60, Unit: "m3"},
			{Keyword: "backfill", Rate: 60, Unit: "m3"},
			{Keyword: "حديد", Rate: 2, Unit: "ton"},
			{Keyword: "rebar", Rate: 2, Unit: "ton"},
			{Keyword: "steel", Rate: 2, Unit: "ton"},
			{Keyword: "شدات", Rate: 30, Unit: "m2"},
			{Keyword: "formwork", Rate: 30, Unit: "m2"},
			{Keyword: "خرسانة", Rate: 20, Unit: "m3"},
			{Keyword: "concrete", Rate: 20, Unit: "m3"},
			{Keyword: "بلوك", Rate: 25, Unit: "m2"},
			{Keyword: "block", Rate: 25, Unit: "m2"},
			{Keyword: "طوب", Rate: 20, Unit: "m2"},
			{Keyword: "brick", Rate: 20, Unit: "m2"},
			{Keyword: "لياسة", Rate: 40, Unit: "m2"},
			{Keyword: "plaster", Rate: 40, Unit: "m2"},
			{Keyword: "عزل", Rate: 60, Unit: "m2"},
			{Keyword: "waterproof", Rate: 60, Unit: "m2"},
			{Keyword: "insulation", Rate: 60, Unit: "m2"},
			{Keyword: "رخام", Rate: 15, Unit: "m2"},
			{Keyword: "marble", Rate: 15, Unit: "m2"},
			{Keyword: "سيراميك", Rate: 30, Unit: "m2"},
			{Keyword: "ceramic", Rate: 30, Unit: "m2"},
			{Keyword: "بلاط", Rate: 25, Unit: "m2"},
			{Keyword: "tile", Rate: 25, Unit: "m2"},
			{Keyword: "دهان", Rate: 80, Unit: "m2"},
			{Keyword: "paint", Rate: 80, Unit: "m2"},
			{Keyword: "جبس", Rate: 30, Unit: "m2"},
			{Keyword: "gypsum", Rate: 30, Unit: "m2"},
			{Keyword: "كهرباء", Rate: 50, Unit: "m"},
			{Keyword: "electrical", Rate: 50, Unit: "m"},
			{Keyword: "cable", Rate: 100, Unit: "m"},
			{Keyword: "سباكة", Rate: 40, Unit: "m"},
			{Keyword: "plumbing", Rate: 40, Unit: "m"},
			{Keyword: "pipe", Rate: 40, Unit: "m"},
			{Keyword: "تكييف", Rate: 20, Unit: "unit"},
			{Keyword: "hvac", Rate: 20, Unit: "unit"},
			{Keyword: "duct", Rate: 25, Unit: "m2"},
			{Keyword: "أسفلت", Rate: 200, Unit: "m2"},
			{Keyword: "asphalt", Rate: 200, Unit: "m2"},
			{Keyword: "رصف", Rate: 80, Unit: "m2"},
			{Keyword: "paving", Rate: 80, Unit: "m2"},
			{Keyword: "تنسيق", Rate: 50, Unit: "m2"},
			{Keyword: "landscap", Rate: 50, Unit: "m2"},
		},
		DefaultRate: Rate{Rate: 10, Unit: "unit"},
	}
}
