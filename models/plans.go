package models

// Plans is the static investment catalog, loaded once and never mutated at
// runtime. TotalReturn values are authored constants.
var Plans = []Plan{
	{ID: "p1", Name: "BlueCard-399", Price: 399, Duration: 3, DailyProfitPercent: 5.0, TotalReturn: 458, Color: "from-blue-900 to-blue-600"},
	{ID: "p2", Name: "SilverCard-600", Price: 600, Duration: 5, DailyProfitPercent: 4.5, TotalReturn: 735, Color: "from-slate-700 to-slate-400"},
	{ID: "p3", Name: "GoldCard-1200", Price: 1200, Duration: 7, DailyProfitPercent: 4.0, TotalReturn: 1536, Color: "from-yellow-900 to-yellow-600"},
	{ID: "p4", Name: "RubyCard-2000", Price: 2000, Duration: 10, DailyProfitPercent: 3.5, TotalReturn: 2700, Color: "from-red-900 to-red-600"},
	{ID: "p5", Name: "EmeraldCard-5000", Price: 5000, Duration: 12, DailyProfitPercent: 3.2, TotalReturn: 6920, Color: "from-emerald-900 to-emerald-600"},
	{ID: "p6", Name: "DiamondCard-10K", Price: 10000, Duration: 15, DailyProfitPercent: 3.0, TotalReturn: 14500, Color: "from-cyan-900 to-cyan-600"},
	{ID: "p7", Name: "SapphireCard-20K", Price: 20000, Duration: 20, DailyProfitPercent: 2.8, TotalReturn: 31200, Color: "from-indigo-900 to-indigo-600"},
	{ID: "p8", Name: "TitaniumCard-30K", Price: 30000, Duration: 25, DailyProfitPercent: 2.6, TotalReturn: 49500, Color: "from-gray-900 to-gray-600"},
	{ID: "p9", Name: "PlatinumCard-50K", Price: 50000, Duration: 30, DailyProfitPercent: 2.5, TotalReturn: 87500, Color: "from-purple-900 to-purple-600"},
	{ID: "p10", Name: "UltraCard-100K", Price: 100000, Duration: 35, DailyProfitPercent: 2.4, TotalReturn: 184000, Color: "from-rose-900 to-rose-600"},
	{ID: "p11", Name: "InfinityCard-200K", Price: 200000, Duration: 40, DailyProfitPercent: 2.3, TotalReturn: 384000, Color: "from-fuchsia-900 to-fuchsia-600"},
}

// PlanByID returns nil when the id is not in the catalog.
func PlanByID(id string) *Plan {
	for i := range Plans {
		if Plans[i].ID == id {
			return &Plans[i]
		}
	}
	return nil
}
