package services

import (
	"testing"

	"finspace/internal/testutil"
)

func TestSeedDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCurrencyService(db)

	testutil.AssertNoError(t, svc.SeedDefaults())

	currencies, err := svc.ListCurrencies(true)
	testutil.AssertNoError(t, err)
	if len(currencies) != 10 {
		t.Fatalf("expected 10 default currencies, got %d", len(currencies))
	}
	if currencies[0].Code != "USD" {
		t.Errorf("expected USD first by display order, got %s", currencies[0].Code)
	}

	// Seeding again must not duplicate rows.
	testutil.AssertNoError(t, svc.SeedDefaults())
	currencies, err = svc.ListCurrencies(true)
	testutil.AssertNoError(t, err)
	if len(currencies) != 10 {
		t.Errorf("expected seeding to be idempotent, got %d currencies", len(currencies))
	}
}

func TestGetCurrency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCurrencyService(db)
	testutil.AssertNoError(t, svc.SeedDefaults())

	// Lookup is case-insensitive.
	currency, err := svc.GetCurrency("jpy")
	testutil.AssertNoError(t, err)
	if currency.DecimalPlaces != 0 {
		t.Errorf("expected JPY with 0 decimal places, got %d", currency.DecimalPlaces)
	}

	_, err = svc.GetCurrency("XXX")
	testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
}

func TestCreateCurrency(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)

		currency, err := svc.CreateCurrency("thb", "Thai Baht", "฿", 2, 11)
		testutil.AssertNoError(t, err)
		if currency.Code != "THB" {
			t.Errorf("expected code normalized to THB, got %s", currency.Code)
		}
		if !currency.IsActive {
			t.Error("expected new currency to be active")
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)

		_, err := svc.CreateCurrency("THB", "Thai Baht", "฿", 2, 11)
		testutil.AssertNoError(t, err)

		_, err = svc.CreateCurrency("thb", "Thai Baht", "฿", 2, 11)
		testutil.AssertAppError(t, err, "CURRENCY_EXISTS")
	})

	t.Run("bad_code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewCurrencyService(db)

		_, err := svc.CreateCurrency("TH", "Thai Baht", "฿", 2, 11)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestUpdateCurrency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCurrencyService(db)
	testutil.AssertNoError(t, svc.SeedDefaults())

	inactive := false
	_, err := svc.UpdateCurrency("MYR", nil, nil, nil, nil, &inactive)
	testutil.AssertNoError(t, err)

	active, err := svc.ListCurrencies(true)
	testutil.AssertNoError(t, err)
	for _, c := range active {
		if c.Code == "MYR" {
			t.Error("deactivated currency should not appear in the active list")
		}
	}

	all, err := svc.ListCurrencies(false)
	testutil.AssertNoError(t, err)
	if len(all) != 10 {
		t.Errorf("deactivated currency should still be listed with include_inactive, got %d", len(all))
	}
}

func TestDeleteCurrency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewCurrencyService(db)
	testutil.AssertNoError(t, svc.SeedDefaults())

	testutil.AssertNoError(t, svc.DeleteCurrency("CHF"))

	_, err := svc.GetCurrency("CHF")
	testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")

	err = svc.DeleteCurrency("CHF")
	testutil.AssertAppError(t, err, "CURRENCY_NOT_FOUND")
}
