package patterns

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surenmigorskiy-ui/duo-backend/internal/models"
)

func tx(desc, category, sub, user string) models.Transaction {
	return models.Transaction{Description: desc, Category: category, SubCategory: sub, User: user}
}

func TestMineEmptyHistory(t *testing.T) {
	assert.Nil(t, Mine(nil, "taxi"))
	assert.Equal(t, "", Mine(nil, "").Guidance())
}

func TestMineSingleCategory(t *testing.T) {
	history := make([]models.Transaction, 5)
	for i := range history {
		history[i] = tx("Lunch", "Food", "", "")
	}

	s := Mine(history, "")
	require.NotNil(t, s)
	assert.Equal(t, Ranked{Value: "Food", Count: 5}, s.Top[FieldCategory])
	_, hasUser := s.Top[FieldUser]
	assert.False(t, hasUser)
}

func TestMineWindowIsFiftyMostRecent(t *testing.T) {
	var history []models.Transaction
	for i := 0; i < Window; i++ {
		history = append(history, tx(fmt.Sprintf("item %d", i), "", "", "alena"))
	}
	for i := 0; i < 30; i++ {
		history = append(history, tx("old", "", "", "suren"))
	}

	s := Mine(history, "")
	require.NotNil(t, s)
	assert.Equal(t, Ranked{Value: "alena", Count: Window}, s.Top[FieldUser])
}

func TestMineTieBreakIsFirstSeen(t *testing.T) {
	history := []models.Transaction{
		tx("a", "Transport", "", ""),
		tx("b", "Food", "", ""),
		tx("c", "Food", "", ""),
		tx("d", "Transport", "", ""),
		tx("e", "Food", "", ""),
		tx("f", "Transport", "", ""),
	}

	s := Mine(history, "")
	require.NotNil(t, s)
	assert.Equal(t, Ranked{Value: "Transport", Count: 3}, s.Top[FieldCategory])
}

func TestMineNeverReportsBelowThreshold(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	values := []string{"a", "b", "c", "d", "e", ""}
	pick := func() string { return values[r.Intn(len(values))] }

	for round := 0; round < 200; round++ {
		n := r.Intn(80)
		history := make([]models.Transaction, n)
		for i := range history {
			history[i] = models.Transaction{
				Description:     pick() + " " + pick(),
				Category:        pick(),
				SubCategory:     pick(),
				User:            pick(),
				PaymentMethodID: pick(),
				Priority:        pick(),
			}
		}

		s := Mine(history, "aaa bbb")
		if s == nil {
			continue
		}
		for f, ranked := range s.Top {
			assert.Greater(t, ranked.Count, HistoryThreshold, "field %s", f)
		}
		for f, ranked := range s.Similar {
			assert.Greater(t, ranked.Count, SimilarThreshold, "field %s", f)
		}
	}
}

func TestSimilarMatchesKeywords(t *testing.T) {
	history := []models.Transaction{
		{Description: "Yandex Taxi to airport", Category: "Transport", User: "suren", PaymentMethodID: "card-1"},
		{Description: "Groceries", Category: "Food", User: "alena"},
		{Description: "taxi home", Category: "Transport", User: "suren", PaymentMethodID: "card-1"},
		{Description: "TAXI", Category: "Transport", User: "alena", PaymentMethodID: "cash"},
	}

	got := Similar(history, "Taxi to work")
	assert.Equal(t, Ranked{Value: "Transport", Count: 3}, got[FieldCategory])
	assert.Equal(t, Ranked{Value: "suren", Count: 2}, got[FieldUser])
	assert.Equal(t, Ranked{Value: "card-1", Count: 2}, got[FieldPaymentMethod])

	assert.Nil(t, Similar(history, "to a"), "short words are not keywords")
}

func TestSimilarLimitsMatches(t *testing.T) {
	var history []models.Transaction
	for i := 0; i < SimilarLimit; i++ {
		history = append(history, tx("coffee", "Cafe", "", ""))
	}
	for i := 0; i < 30; i++ {
		history = append(history, tx("coffee beans", "Food", "", ""))
	}

	got := Similar(history, "coffee")
	assert.Equal(t, Ranked{Value: "Cafe", Count: SimilarLimit}, got[FieldCategory])
}

func TestExemplars(t *testing.T) {
	history := []models.Transaction{
		tx("Yandex Go", "Transport", "Taxi", ""),
		tx("Uber", "Transport", "Taxi", ""),
		tx("Yandex Go", "Transport", "Taxi", ""),
		tx("Metro", "Transport", "", ""),
		tx("Mystery", models.CategoryUnknown, "", ""),
	}
	for i := 0; i < 6; i++ {
		history = append(history, tx(fmt.Sprintf("Shop %d", i), "Food", "", ""))
	}

	s := Mine(history, "")
	require.NotNil(t, s)
	require.Len(t, s.Exemplars, 3)

	taxi := s.Exemplars[0]
	assert.Equal(t, "Transport", taxi.Category)
	assert.Equal(t, "Taxi", taxi.SubCategory)
	assert.Equal(t, []string{"Yandex Go", "Uber"}, taxi.Descriptions)
	assert.Equal(t, Ranked{Value: "Yandex Go", Count: 2}, taxi.MostFrequent)

	assert.Len(t, s.Exemplars[2].Descriptions, MaxExemplarDescriptions)
}

func TestExemplarGroupsAreCapped(t *testing.T) {
	var history []models.Transaction
	for i := 0; i < 20; i++ {
		history = append(history, tx("thing", fmt.Sprintf("Cat %d", i), "", ""))
	}
	s := Mine(history, "")
	require.NotNil(t, s)
	assert.Len(t, s.Exemplars, MaxExemplarGroups)
	assert.Equal(t, "Cat 0", s.Exemplars[0].Category)
}

func TestGuidance(t *testing.T) {
	history := []models.Transaction{
		{Description: "Taxi", Category: "Transport", SubCategory: "Taxi", User: "suren"},
		{Description: "Taxi", Category: "Transport", SubCategory: "Taxi", User: "suren"},
		{Description: "Taxi", Category: "Transport", SubCategory: "Taxi", User: "suren"},
	}

	g := Mine(history, "taxi").Guidance()
	assert.Contains(t, g, `The category "Transport" was used 3 times`)
	assert.Contains(t, g, `similar description used the user "suren" 3 times`)
	assert.Contains(t, g, `"Transport" / "Taxi": "Taxi" (most frequent: "Taxi")`)
	assert.True(t, strings.Contains(g, "verbatim"))
}

func TestGuidanceIsDeterministic(t *testing.T) {
	history := []models.Transaction{
		{Description: "a", Category: "X", User: "u", Priority: "must-have"},
		{Description: "a", Category: "X", User: "u", Priority: "must-have"},
		{Description: "a", Category: "X", User: "u", Priority: "must-have"},
	}
	first := Mine(history, "").Guidance()
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Mine(history, "").Guidance())
	}
}
