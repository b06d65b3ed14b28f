package generation

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-planner/internal/api/completions"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// MockCompletionClient is a mock implementation of the completions.Client interface
type MockCompletionClient struct {
	mock.Mock
}

func (m *MockCompletionClient) Complete(ctx context.Context, req completions.Request) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func newTestGenerator(client completions.Client) *GeneratorImpl {
	return NewGenerator(client, Options{}, slog.Default())
}

const validContentPayload = `{
	"activities": [
		{"time": "9:00 AM", "title": "Visit to The Grand Palace", "description": "Explore the royal complex.", "location": "Na Phra Lan Rd, Bangkok", "budget": "500 THB / $14"},
		{"time": "12:30 PM", "title": "Lunch at Thip Samai", "description": "Famous pad thai restaurant.", "location": "313 Maha Chai Rd", "budget": "100 THB / $3"},
		{"time": "3:00 PM", "title": "Wat Pho", "description": "Reclining Buddha temple.", "location": "2 Sanam Chai Rd", "budget": "200 THB / $6"},
		{"time": "7:00 PM", "title": "Dinner cruise on the Chao Phraya", "description": "Evening river cruise.", "location": "River City Pier", "budget": "1500 THB / $42"}
	],
	"packingList": ["Light cotton clothing", "Sunscreen"],
	"tips": ["Carry small bills", "Dress modestly at temples"]
}`

func TestGenerateDestinationContent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockClient := new(MockCompletionClient)
		mockClient.On("Complete", ctx, mock.MatchedBy(func(req completions.Request) bool {
			return req.Model == "gpt-4" && req.MaxTokens == 2000
		})).Return(validContentPayload, nil).Once()

		g := newTestGenerator(mockClient)
		content, err := g.GenerateDestinationContent(ctx, "Bangkok, Thailand", 1, nil, 600)

		require.NoError(t, err)
		assert.Len(t, content.Activities, 4)
		assert.Equal(t, "Visit to The Grand Palace", content.Activities[0].Title)
		assert.Equal(t, []string{"Light cotton clothing", "Sunscreen"}, content.PackingList)
		assert.Len(t, content.Tips, 2)
		mockClient.AssertExpectations(t)
	})

	t.Run("FencedJSONPayload", func(t *testing.T) {
		mockClient := new(MockCompletionClient)
		fenced := "Here is your plan:\n```json\n" + validContentPayload + "\n```"
		mockClient.On("Complete", ctx, mock.Anything).Return(fenced, nil).Once()

		g := newTestGenerator(mockClient)
		content, err := g.GenerateDestinationContent(ctx, "Bangkok, Thailand", 1, nil, 0)

		require.NoError(t, err)
		assert.Len(t, content.Activities, 4)
	})

	t.Run("MissingActivitiesArray", func(t *testing.T) {
		mockClient := new(MockCompletionClient)
		mockClient.On("Complete", ctx, mock.Anything).Return(`{"packingList": ["hat"]}`, nil).Once()

		g := newTestGenerator(mockClient)
		_, err := g.GenerateDestinationContent(ctx, "Bangkok, Thailand", 1, nil, 0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing activities array")
	})

	t.Run("UnparseablePayload", func(t *testing.T) {
		mockClient := new(MockCompletionClient)
		mockClient.On("Complete", ctx, mock.Anything).Return("Sorry, I cannot help with that.", nil).Once()

		g := newTestGenerator(mockClient)
		_, err := g.GenerateDestinationContent(ctx, "Bangkok, Thailand", 1, nil, 0)
		assert.Error(t, err)
	})

	t.Run("CompletionFailurePropagates", func(t *testing.T) {
		mockClient := new(MockCompletionClient)
		mockClient.On("Complete", ctx, mock.Anything).Return("", errors.New("service unavailable")).Once()

		g := newTestGenerator(mockClient)
		_, err := g.GenerateDestinationContent(ctx, "Bangkok, Thailand", 1, nil, 0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to generate destination content")
	})

	t.Run("IncompleteActivitiesRepaired", func(t *testing.T) {
		mockClient := new(MockCompletionClient)
		payload := `{"activities": [{"title": "Wat Arun"}], "packingList": [], "tips": []}`
		mockClient.On("Complete", ctx, mock.Anything).Return(payload, nil).Once()

		g := newTestGenerator(mockClient)
		content, err := g.GenerateDestinationContent(ctx, "Bangkok, Thailand", 1, nil, 0)

		require.NoError(t, err)
		require.Len(t, content.Activities, 1)
		a := content.Activities[0]
		assert.Equal(t, "Wat Arun", a.Title)
		assert.Equal(t, "12:00 PM", a.Time)
		assert.Equal(t, "Enjoy your time in Bangkok", a.Description)
		assert.Equal(t, "$15-30", a.Budget)
		assert.Equal(t, "Bangkok, Thailand", a.Location)
	})

	t.Run("MalformedPackingListCoerced", func(t *testing.T) {
		mockClient := new(MockCompletionClient)
		payload := `{"activities": [], "packingList": "not a list", "tips": 42}`
		mockClient.On("Complete", ctx, mock.Anything).Return(payload, nil).Once()

		g := newTestGenerator(mockClient)
		content, err := g.GenerateDestinationContent(ctx, "Bangkok, Thailand", 1, nil, 0)

		require.NoError(t, err)
		assert.Empty(t, content.PackingList)
		assert.Empty(t, content.Tips)
	})

	t.Run("SecondCallServedFromCache", func(t *testing.T) {
		mockClient := new(MockCompletionClient)
		mockClient.On("Complete", ctx, mock.Anything).Return(validContentPayload, nil).Once()

		g := newTestGenerator(mockClient)
		_, err := g.GenerateDestinationContent(ctx, "Bangkok, Thailand", 1, nil, 600)
		require.NoError(t, err)
		_, err = g.GenerateDestinationContent(ctx, "Bangkok, Thailand", 1, nil, 600)
		require.NoError(t, err)

		mockClient.AssertNumberOfCalls(t, "Complete", 1)
	})
}

func TestNormalizeActivities_Idempotent(t *testing.T) {
	complete := []types.Activity{
		{Time: "9:00 AM", Title: "Visit to Wat Pho", Description: "Temple visit", Budget: "200 THB / $6", Location: "2 Sanam Chai Rd"},
		{Time: "1:00 PM", Title: "Lunch", Description: "Street food", Budget: "$5", Location: "Chinatown"},
	}

	once := NormalizeActivities(complete, "Bangkok", "Thailand")
	twice := NormalizeActivities(once, "Bangkok", "Thailand")

	assert.Equal(t, complete, once)
	assert.Equal(t, once, twice)
}

func TestParseDestination(t *testing.T) {
	city, country := ParseDestination("Bangkok, Thailand")
	assert.Equal(t, "Bangkok", city)
	assert.Equal(t, "Thailand", country)

	city, country = ParseDestination("Singapore")
	assert.Equal(t, "Singapore", city)
	assert.Equal(t, "Unknown", country)
}
