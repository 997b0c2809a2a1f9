package dto

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard-api/internal/domain"
)

func TestCreateBoardRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request CreateBoardRequest
		wantErr bool
	}{
		{"valid", CreateBoardRequest{Title: "Roadmap"}, false},
		{"valid with background", CreateBoardRequest{Title: "Roadmap", Background: "#ff00aa"}, false},
		{"whitespace title", CreateBoardRequest{Title: "   "}, true},
		{"title too long", CreateBoardRequest{Title: strings.Repeat("x", 101)}, true},
		{"description too long", CreateBoardRequest{Title: "ok", Description: strings.Repeat("x", 501)}, true},
		{"bad background", CreateBoardRequest{Title: "ok", Background: "red"}, true},
		{"short hex background", CreateBoardRequest{Title: "ok", Background: "#fff"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateBoardRequest_Validate_TrimsTitle(t *testing.T) {
	req := CreateBoardRequest{Title: "  Roadmap  "}
	require.NoError(t, req.Validate())
	assert.Equal(t, "Roadmap", req.Title)
}

func TestUpdateBoardRequest_Validate(t *testing.T) {
	empty := " "
	long := strings.Repeat("x", 101)
	good := "Renamed"

	assert.Error(t, (&UpdateBoardRequest{Title: &empty}).Validate())
	assert.Error(t, (&UpdateBoardRequest{Title: &long}).Validate())
	assert.NoError(t, (&UpdateBoardRequest{Title: &good}).Validate())
	assert.NoError(t, (&UpdateBoardRequest{}).Validate())
}

func TestCreateListRequest_Validate(t *testing.T) {
	assert.NoError(t, (&CreateListRequest{Title: "Todo", BoardID: uuid.New()}).Validate())
	assert.Error(t, (&CreateListRequest{Title: "", BoardID: uuid.New()}).Validate())
	assert.Error(t, (&CreateListRequest{Title: "Todo"}).Validate())
	assert.Error(t, (&CreateListRequest{Title: strings.Repeat("x", 101), BoardID: uuid.New()}).Validate())
}

func TestUpdateListRequest_Validate(t *testing.T) {
	negative := -1
	zero := 0
	assert.Error(t, (&UpdateListRequest{Position: &negative}).Validate())
	assert.NoError(t, (&UpdateListRequest{Position: &zero}).Validate())
}

func TestCreateTaskRequest_Validate(t *testing.T) {
	listID := uuid.New()

	tests := []struct {
		name    string
		request CreateTaskRequest
		wantErr bool
	}{
		{"valid", CreateTaskRequest{Title: "Ship", ListID: listID}, false},
		{"valid with labels", CreateTaskRequest{Title: "Ship", ListID: listID, Labels: []domain.Label{{Color: "#ff0000", Text: "urgent"}}}, false},
		{"empty title", CreateTaskRequest{Title: " ", ListID: listID}, true},
		{"title too long", CreateTaskRequest{Title: strings.Repeat("x", 201), ListID: listID}, true},
		{"missing list", CreateTaskRequest{Title: "Ship"}, true},
		{"bad label color", CreateTaskRequest{Title: "Ship", ListID: listID, Labels: []domain.Label{{Color: "red"}}}, true},
		{"label text too long", CreateTaskRequest{Title: "Ship", ListID: listID, Labels: []domain.Label{{Text: strings.Repeat("x", 51)}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateTaskRequest_Validate(t *testing.T) {
	negative := -2
	assert.Error(t, (&UpdateTaskRequest{Position: &negative}).Validate())
	assert.NoError(t, (&UpdateTaskRequest{ClearDue: true}).Validate())
}

func TestMoveTaskRequest_Validate(t *testing.T) {
	assert.NoError(t, (&MoveTaskRequest{ListID: uuid.New(), Position: 0}).Validate())
	assert.Error(t, (&MoveTaskRequest{Position: 0}).Validate())
	assert.Error(t, (&MoveTaskRequest{ListID: uuid.New(), Position: -1}).Validate())
}
