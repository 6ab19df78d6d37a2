// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tapledger/internal/core/catalog"
	"github.com/taibuivan/tapledger/internal/platform/apperr"
)

func TestCheckTransition(t *testing.T) {
	tests := []struct {
		name     string
		from     catalog.IncomeState
		to       catalog.IncomeState
		wantCode string
	}{
		{name: "recorded_to_calculated", from: catalog.IncomeRecorded, to: catalog.IncomeCalculated},
		{name: "calculated_to_paid", from: catalog.IncomeCalculated, to: catalog.IncomePaid},
		{name: "calculate_twice", from: catalog.IncomeCalculated, to: catalog.IncomeCalculated, wantCode: apperr.CodeConflict},
		{name: "calculate_after_paid", from: catalog.IncomePaid, to: catalog.IncomeCalculated, wantCode: apperr.CodeConflict},
		{name: "pay_before_calculate", from: catalog.IncomeRecorded, to: catalog.IncomePaid, wantCode: apperr.CodeValidation},
		{name: "pay_twice", from: catalog.IncomePaid, to: catalog.IncomePaid, wantCode: apperr.CodeConflict},
		{name: "back_to_recorded", from: catalog.IncomeCalculated, to: catalog.IncomeRecorded, wantCode: apperr.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.from.CheckTransition(tt.to)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestIncomeStateFlags(t *testing.T) {
	assert.False(t, catalog.IncomeRecorded.RoyaltiesCalculated())
	assert.False(t, catalog.IncomeRecorded.PaymentProcessed())

	assert.True(t, catalog.IncomeCalculated.RoyaltiesCalculated())
	assert.False(t, catalog.IncomeCalculated.PaymentProcessed())

	assert.True(t, catalog.IncomePaid.RoyaltiesCalculated())
	assert.True(t, catalog.IncomePaid.PaymentProcessed())

	assert.False(t, catalog.IncomeState("refunded").IsValid())
}

func TestIncomeMarshalJSON(t *testing.T) {
	income := catalog.Income{ID: "inc-1", TapNumber: "TAP-2025-0001-MY", Amount: 1000, State: catalog.IncomeCalculated}

	data, err := json.Marshal(income)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "calculated", decoded["state"])
	assert.Equal(t, true, decoded["royaltiesCalculated"])
	assert.Equal(t, false, decoded["paymentProcessed"])
	assert.Equal(t, "TAP-2025-0001-MY", decoded["tapNumber"])
}
