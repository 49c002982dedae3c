package domain

import "sort"

// NumberAt は panel_number を返します。未設定 (0以下) の場合はリスト上の位置 index から1始まりの番号を補います。
func (p Panel) NumberAt(index int) int {
	if p.PanelNumber > 0 {
		return p.PanelNumber
	}
	return index + 1
}

// DuplicateNumbers は複数のパネルで使われているパネル番号を昇順で返します。
// 番号が未設定のパネルは位置から補った番号で判定します。
func (ps Panels) DuplicateNumbers() []int {
	seen := make(map[int]int, len(ps))
	for i, panel := range ps {
		seen[panel.NumberAt(i)]++
	}

	var dups []int
	for n, count := range seen {
		if count > 1 {
			dups = append(dups, n)
		}
	}
	sort.Ints(dups)
	return dups
}

// UniqueCharacterNames はパネルのスライスから重複しない登場人物名を抽出します。
func (ps Panels) UniqueCharacterNames() []string {
	set := make(map[string]struct{})
	for _, panel := range ps {
		for _, name := range panel.Characters {
			if name != "" {
				set[name] = struct{}{}
			}
		}
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
