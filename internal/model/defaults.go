package model

import "github.com/theirongolddev/fincmd/internal/money"

const (
	// DefaultFoodDays is the length of a food cycle.
	DefaultFoodDays = 28
	// DefaultSavingsBucket receives aggregate-level savings adjustments.
	DefaultSavingsBucket = "Main"
)

var (
	defaultGeneralSavings = money.FromInt(1457)
	defaultWeeklyMisc     = money.FromInt(320)
	defaultFoodBase       = money.FromInt(840)
	defaultCarFund        = money.FromInt(500)
)

// DefaultSettings returns the settings used when none are stored.
func DefaultSettings() Settings {
	return Settings{
		Currency:             "AED",
		Decimals:             2,
		ConfirmSurplusEdits:  true,
		AllowNegativeSurplus: true,
		Theme:                ThemeLight,
	}
}

func systemSavingsCategory() Category {
	return Category{
		ID:       CategorySystemSavings,
		Label:    "System Savings",
		IsSystem: true,
		Items: []LineItem{
			{Label: LabelGeneralSavings, Amount: defaultGeneralSavings},
			{Label: LabelPayables, Amount: money.Zero},
		},
	}
}

func coreEssentialsCategory() Category {
	return Category{
		ID:       CategoryCoreEssentials,
		Label:    "Core Essentials",
		IsSystem: true,
		Items: []LineItem{
			{Label: LabelWeeklyMisc, Amount: defaultWeeklyMisc, IsCore: true},
			{Label: LabelFoodBase, Amount: defaultFoodBase, IsCore: true},
			{Label: LabelCarFund, Amount: defaultCarFund, IsCore: true},
		},
	}
}

func userCategory(id, label string, items ...LineItem) Category {
	return Category{ID: id, Label: label, IsLedgerLinked: true, IsSingleAction: true, Items: items}
}

func item(label string, amount int64) LineItem {
	return LineItem{Label: label, Amount: money.FromInt(amount)}
}

// DefaultCategories returns the first-run budget tree.
func DefaultCategories() []Category {
	return []Category{
		systemSavingsCategory(),
		coreEssentialsCategory(),
		userCategory("health", "Health",
			item("Boron Complex", 80), item("Protein", 150), item("Creatine", 100), item("Mg, Sl, Zc", 70)),
		userCategory("groceries", "Groceries",
			item("Oats", 60), item("Eggs", 42)),
		userCategory("misc", "Misc",
			item("Mixed Nuts", 91), item("Misc", 50), item("Hair cut", 35), item("Toilet Paper", 16)),
		userCategory("subscriptions", "Subscriptions",
			item("Etisalat", 100), item("Tarteel", 35), item("YouTube", 24), item("iCloud", 4), item("Adib", 26)),
	}
}

// NewState builds a seeded first-run state: default tree, balances from the
// plan and surplus = income - allocated.
func NewState(income money.Money, settings Settings) State {
	st := State{
		SchemaVersion: SchemaVersion,
		MonthlyIncome: income,
		Settings:      settings,
		Categories:    DefaultCategories(),
		Balances:      map[string]money.Money{},
		Histories:     map[string][]HistoryEntry{},
	}
	st.Normalize()
	st.InitSurplusFromOpening()
	return st
}

// WeeklyFullAmount is the planned monthly Weekly Misc amount.
func (s *State) WeeklyFullAmount() money.Money {
	if c, _, ok := s.Category(CategoryCoreEssentials); ok {
		for _, it := range c.Items {
			if it.Label == LabelWeeklyMisc {
				return it.Amount
			}
		}
	}
	return defaultWeeklyMisc
}

// WeeklyAmount is the allowance released per week.
func (s *State) WeeklyAmount() money.Money {
	return s.WeeklyFullAmount().DivInt(MaxWeeks)
}

// Normalize runs every seed-invariant step: settings defaults, system
// categories, account maps, weekly validity, food defaults and the savings aggregate.
func (s *State) Normalize() {
	s.SchemaVersion = SchemaVersion
	s.EnsureSettings()
	s.EnsureSystemCategories()
	s.EnsureAccounts()
	s.EnsureWeekly()
	s.EnsureFood()
	if s.Balances == nil {
		s.Balances = map[string]money.Money{}
	}
	if s.Histories == nil {
		s.Histories = map[string][]HistoryEntry{}
	}
	s.SyncSavings()
}

// EnsureSettings fills unset settings with defaults.
func (s *State) EnsureSettings() {
	def := DefaultSettings()
	if s.Settings.Currency == "" {
		s.Settings.Currency = def.Currency
	}
	if s.Settings.Decimals < 0 || s.Settings.Decimals > 8 {
		s.Settings.Decimals = def.Decimals
	}
	if s.Settings.Theme != ThemeLight && s.Settings.Theme != ThemeDark {
		s.Settings.Theme = def.Theme
	}
}

// EnsureSystemCategories guarantees System Savings is first, Core Essentials
// second, and that core labels live only in Core Essentials.
func (s *State) EnsureSystemCategories() {
	if _, _, ok := s.Category(CategorySystemSavings); !ok {
		s.Categories = append([]Category{systemSavingsCategory()}, s.Categories...)
	} else {
		sys, _, _ := s.Category(CategorySystemSavings)
		sys.IsSystem = true
		if !hasItem(sys.Items, LabelGeneralSavings) {
			sys.Items = append([]LineItem{{Label: LabelGeneralSavings, Amount: defaultGeneralSavings}}, sys.Items...)
		}
		if !hasItem(sys.Items, LabelPayables) {
			sys.Items = append(sys.Items, LineItem{Label: LabelPayables, Amount: money.Zero})
		}
	}

	if _, _, ok := s.Category(CategoryCoreEssentials); !ok {
		at := 1
		if at > len(s.Categories) {
			at = len(s.Categories)
		}
		s.Categories = append(s.Categories[:at], append([]Category{coreEssentialsCategory()}, s.Categories[at:]...)...)
	} else {
		core, _, _ := s.Category(CategoryCoreEssentials)
		core.IsSystem = true
		for _, def := range coreEssentialsCategory().Items {
			if !hasItem(core.Items, def.Label) {
				core.Items = append(core.Items, def)
			}
		}
	}

	for i := range s.Categories {
		c := &s.Categories[i]
		if c.Items == nil {
			c.Items = []LineItem{}
		}
		if c.ID == CategoryCoreEssentials {
			continue
		}
		kept := c.Items[:0]
		for _, it := range c.Items {
			if it.Label == LabelWeeklyMisc || it.Label == LabelFoodBase || it.Label == LabelCarFund {
				continue
			}
			kept = append(kept, it)
		}
		c.Items = kept
	}
}

func hasItem(items []LineItem, label string) bool {
	for _, it := range items {
		if it.Label == label {
			return true
		}
	}
	return false
}

// EnsureAccounts creates missing account maps and the default savings bucket.
func (s *State) EnsureAccounts() {
	a := &s.Accounts
	if a.Buckets == nil {
		a.Buckets = map[string]money.Money{}
	}
	if a.SavingsBuckets == nil {
		a.SavingsBuckets = map[string]money.Money{DefaultSavingsBucket: a.Buckets[LabelGeneralSavings]}
	}
	if a.SavingsDefaultBucket == "" {
		a.SavingsDefaultBucket = DefaultSavingsBucket
	}
	if _, ok := a.SavingsBuckets[a.SavingsDefaultBucket]; !ok {
		a.SavingsBuckets[a.SavingsDefaultBucket] = money.Zero
	}
}

// EnsureWeekly clamps the week into [1, MaxWeeks].
func (s *State) EnsureWeekly() {
	w := &s.Accounts.Weekly
	if w.Week == 0 && w.Balance.IsZero() {
		w.Balance = s.WeeklyAmount()
	}
	if w.Week < 1 {
		w.Week = 1
	}
	if w.Week > MaxWeeks {
		w.Week = MaxWeeks
	}
}

// EnsureFood fills food defaults and clamps days used.
func (s *State) EnsureFood() {
	f := &s.Food
	if f.DaysTotal <= 0 {
		f.DaysTotal = DefaultFoodDays
	}
	if f.DaysUsed < 0 {
		f.DaysUsed = 0
	}
	if f.DaysUsed > f.DaysTotal {
		f.DaysUsed = f.DaysTotal
	}
	if f.History == nil {
		f.History = []FoodEntry{}
	}
}

// SyncSavings mirrors the savings sub-bucket sum into the General Savings bucket.
func (s *State) SyncSavings() {
	if s.Accounts.Buckets == nil {
		s.Accounts.Buckets = map[string]money.Money{}
	}
	total := money.Zero
	for _, v := range s.Accounts.SavingsBuckets {
		total = total.Add(v)
	}
	s.Accounts.Buckets[LabelGeneralSavings] = total
}

// InitSurplusFromOpening seeds untracked balances from the plan and sets
// surplus to income minus everything allocated.
func (s *State) InitSurplusFromOpening() {
	s.EnsureAccounts()
	for _, c := range s.Categories {
		for _, it := range c.Items {
			switch {
			case it.Label == LabelGeneralSavings:
				if s.savingsTotal().IsZero() {
					s.Accounts.SavingsBuckets[s.Accounts.SavingsDefaultBucket] = it.Amount
				}
			case IsAccountLabel(it.Label):
				if _, ok := s.Accounts.Buckets[it.Label]; !ok {
					s.Accounts.Buckets[it.Label] = it.Amount
				}
			default:
				if _, ok := s.Balances[it.Label]; !ok {
					s.Balances[it.Label] = it.Amount
				}
			}
		}
	}
	s.SyncSavings()
	s.Accounts.Surplus = s.MonthlyIncome.Sub(s.TotalAllocated())
}

func (s *State) savingsTotal() money.Money {
	total := money.Zero
	for _, v := range s.Accounts.SavingsBuckets {
		total = total.Add(v)
	}
	return total
}
