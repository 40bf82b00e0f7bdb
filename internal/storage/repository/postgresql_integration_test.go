package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laseropolis/marketplace-api/internal/models"
)

func TestStorage_UpsertCartEntry(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")
	creatorUID := factory.CreateUser(t, "creador", "creador@example.com")
	categoryID := factory.CreateCategory(t, "relojes")
	itemID := factory.CreateItem(t, "reloj-engranajes", 1500, categoryID, creatorUID)

	ctx := context.Background()
	entry := models.CartEntry{
		UserUID: userUID,
		ItemID:  itemID,
		Name:    "reloj-engranajes",
		Price:   1500,
		Kind:    models.ItemKindFile,
	}

	t.Run("primera inserción crea la línea", func(t *testing.T) {
		got, err := storage.UpsertCartEntry(ctx, entry)
		require.NoError(t, err)
		assert.Equal(t, userUID, got.UserUID)
		assert.Equal(t, itemID, got.ItemID)
		assert.Equal(t, 1500, got.Price)
		assert.Equal(t, 1, got.Quantity)
	})

	t.Run("repetir la inserción devuelve la misma fila", func(t *testing.T) {
		first, err := storage.UpsertCartEntry(ctx, entry)
		require.NoError(t, err)

		second, err := storage.UpsertCartEntry(ctx, entry)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, second.Quantity)
		assert.Equal(t, 1, factory.CountRows(t, "carrito_compras", "usuario_uid = $1", userUID))
	})
}

func TestStorage_RemoveCartEntry(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ownerUID := factory.CreateUser(t, "maria", "maria@example.com")
	otherUID := factory.CreateUser(t, "pedro", "pedro@example.com")
	creatorUID := factory.CreateUser(t, "creador", "creador@example.com")
	categoryID := factory.CreateCategory(t, "relojes")
	itemID := factory.CreateItem(t, "reloj-engranajes", 1500, categoryID, creatorUID)

	ctx := context.Background()
	entry, err := storage.UpsertCartEntry(ctx, models.CartEntry{
		UserUID: ownerUID, ItemID: itemID, Name: "reloj-engranajes",
		Price: 1500, Kind: models.ItemKindFile,
	})
	require.NoError(t, err)

	t.Run("otro usuario no puede borrar la línea", func(t *testing.T) {
		removed, err := storage.RemoveCartEntry(ctx, otherUID, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
		assert.Equal(t, 1, factory.CountRows(t, "carrito_compras", "id = $1", entry.ID))
	})

	t.Run("el dueño borra su línea", func(t *testing.T) {
		removed, err := storage.RemoveCartEntry(ctx, ownerUID, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
		assert.Equal(t, 0, factory.CountRows(t, "carrito_compras", "id = $1", entry.ID))
	})

	t.Run("la línea inexistente devuelve cero filas", func(t *testing.T) {
		removed, err := storage.RemoveCartEntry(ctx, ownerUID, 999999)
		require.NoError(t, err)
		assert.Equal(t, 0, removed)
	})
}

func TestStorage_ProvisionUserProfile(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	referrerUID := factory.CreateUser(t, "madrina", "madrina@example.com")
	userUID := factory.CreateUser(t, "maria", "maria@example.com")

	ctx := context.Background()

	ok, err := storage.ProvisionUserProfile(ctx, referrerUID, "MADRINA01", nil)
	require.NoError(t, err)
	require.True(t, ok)

	t.Run("la primera provisión fija código y referidor", func(t *testing.T) {
		ok, err := storage.ProvisionUserProfile(ctx, userUID, "MARIA001", &referrerUID)
		require.NoError(t, err)
		assert.True(t, ok)

		user, err := storage.GetUser(ctx, userUID)
		require.NoError(t, err)
		assert.Equal(t, "MARIA001", user.ReferralCode)
		require.NotNil(t, user.ReferredBy)
		assert.Equal(t, referrerUID, *user.ReferredBy)
	})

	t.Run("provisiones repetidas no modifican nada", func(t *testing.T) {
		ok, err := storage.ProvisionUserProfile(ctx, userUID, "OTRO0001", nil)
		require.NoError(t, err)
		assert.False(t, ok)

		user, err := storage.GetUser(ctx, userUID)
		require.NoError(t, err)
		assert.Equal(t, "MARIA001", user.ReferralCode)
		require.NotNil(t, user.ReferredBy)
	})
}

func TestStorage_AddCredits(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "madrina", "madrina@example.com")

	ctx := context.Background()

	require.NoError(t, storage.AddCredits(ctx, userUID, 10))
	require.NoError(t, storage.AddCredits(ctx, userUID, 10))
	require.NoError(t, storage.AddCredits(ctx, userUID, -5))

	user, err := storage.GetUser(ctx, userUID)
	require.NoError(t, err)
	assert.Equal(t, 15, user.Credits)
}

func TestStorage_ReferralCodes(t *testing.T) {
	type args struct {
		ctx  context.Context
		code string
	}

	tests := []struct {
		name       string
		args       args
		wantExists bool
		setup      func(t *testing.T, storage *Storage, factory *TestDataFactory)
	}{
		{
			name:       "el código provisionado existe y resuelve a su dueño",
			args:       args{ctx: context.Background(), code: "MADRINA01"},
			wantExists: true,
			setup: func(t *testing.T, storage *Storage, factory *TestDataFactory) {
				uid := factory.CreateUser(t, "madrina", "madrina@example.com")
				ok, err := storage.ProvisionUserProfile(context.Background(), uid, "MADRINA01", nil)
				require.NoError(t, err)
				require.True(t, ok)
			},
		},
		{
			name:       "el código desconocido no existe",
			args:       args{ctx: context.Background(), code: "NOEXISTE1"},
			wantExists: false,
			setup:      func(_ *testing.T, _ *Storage, _ *TestDataFactory) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			tt.setup(t, storage, factory)

			exists, err := storage.ReferralCodeExists(tt.args.ctx, tt.args.code)
			require.NoError(t, err)
			assert.Equal(t, tt.wantExists, exists)

			user, err := storage.GetUserByReferralCode(tt.args.ctx, tt.args.code)
			if tt.wantExists {
				require.NoError(t, err)
				assert.Equal(t, tt.args.code, user.ReferralCode)
			} else {
				require.ErrorIs(t, err, ErrNotFound)
			}
		})
	}
}

func TestStorage_DownloadGrants(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")
	creatorUID := factory.CreateUser(t, "creador", "creador@example.com")
	categoryID := factory.CreateCategory(t, "relojes")
	itemID := factory.CreateItem(t, "reloj-engranajes", 1500, categoryID, creatorUID)

	ctx := context.Background()

	t.Run("sin derecho registrado", func(t *testing.T) {
		has, err := storage.HasDownloadGrant(ctx, userUID, itemID)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("registrar el derecho dos veces deja una sola fila", func(t *testing.T) {
		require.NoError(t, storage.CreateDownloadGrant(ctx, userUID, itemID))
		require.NoError(t, storage.CreateDownloadGrant(ctx, userUID, itemID))

		has, err := storage.HasDownloadGrant(ctx, userUID, itemID)
		require.NoError(t, err)
		assert.True(t, has)
		assert.Equal(t, 1, factory.CountRows(t, "descargas_usuario",
			"usuario_uid = $1 AND archivo_id = $2", userUID, itemID))
	})
}

func TestStorage_ReconcileMembershipPayment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")
	categoryID := factory.CreateCategory(t, "relojes")
	planID := factory.CreatePlan(t, "plan-mensual", 9900, 30, categoryID)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	oldGrantID := factory.CreateGrant(t, userUID, planID,
		now.AddDate(0, -1, 0), now.AddDate(0, 0, 10), true)

	ctx := context.Background()
	txID := "PAYPAL-TX-1"
	paymentID, err := storage.ReconcileMembershipPayment(ctx, MembershipReconciliation{
		UserUID:       userUID,
		PlanID:        planID,
		Amount:        9900,
		Method:        models.PaymentMethodPayPal,
		TransactionID: &txID,
		StartDate:     now,
		ExpiresAt:     now.AddDate(0, 0, 40),
	})
	require.NoError(t, err)
	require.NotZero(t, paymentID)

	t.Run("registra el pago completado", func(t *testing.T) {
		payments, err := storage.ListPayments(ctx, userUID)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, paymentID, payments[0].ID)
		assert.Equal(t, 9900, payments[0].Amount)
		assert.Equal(t, models.PaymentMethodPayPal, payments[0].Method)
		assert.Equal(t, models.PaymentStatusCompleted, payments[0].Status)
		require.NotNil(t, payments[0].TransactionID)
		assert.Equal(t, txID, *payments[0].TransactionID)
		require.NotNil(t, payments[0].MembershipPlanID)
		assert.Equal(t, planID, *payments[0].MembershipPlanID)
	})

	t.Run("desactiva la membresía anterior y deja una sola activa", func(t *testing.T) {
		assert.Equal(t, 0, factory.CountRows(t, "membresias_usuarios",
			"id = $1 AND activa", oldGrantID))
		assert.Equal(t, 1, factory.CountRows(t, "membresias_usuarios",
			"usuario_uid = $1 AND activa", userUID))

		grant, err := storage.GetActiveGrant(ctx, userUID)
		require.NoError(t, err)
		require.NotNil(t, grant)
		assert.Equal(t, planID, grant.PlanID)
		assert.True(t, grant.ExpiresAt.Equal(now.AddDate(0, 0, 40)))
	})

	t.Run("refleja el plan activo en el usuario", func(t *testing.T) {
		user, err := storage.GetUser(ctx, userUID)
		require.NoError(t, err)
		require.NotNil(t, user.MembershipID)
		assert.Equal(t, planID, *user.MembershipID)
	})
}

func TestStorage_ReconcileCartPayment(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "maria", "maria@example.com")
	creatorUID := factory.CreateUser(t, "creador", "creador@example.com")
	categoryID := factory.CreateCategory(t, "relojes")
	fileItemID := factory.CreateItem(t, "reloj-engranajes", 1500, categoryID, creatorUID)

	var productItemID int
	err := storage.DB.QueryRow(`INSERT INTO archivos
		(nombre, precio, tipo, categoria_id, creador_uid, archivo_url)
		VALUES ('reloj-armado', 2000, 'producto', $1, $2, 'productos/reloj-armado')
		RETURNING id`, categoryID, creatorUID).Scan(&productItemID)
	require.NoError(t, err)

	ctx := context.Background()
	fileEntry, err := storage.UpsertCartEntry(ctx, models.CartEntry{
		UserUID: userUID, ItemID: fileItemID, Name: "reloj-engranajes",
		Price: 1500, Kind: models.ItemKindFile,
	})
	require.NoError(t, err)
	productEntry, err := storage.UpsertCartEntry(ctx, models.CartEntry{
		UserUID: userUID, ItemID: productItemID, Name: "reloj-armado",
		Price: 2000, Kind: models.ItemKindProduct,
	})
	require.NoError(t, err)

	txID := "PAYPAL-TX-2"
	paymentID, err := storage.ReconcileCartPayment(ctx, CartReconciliation{
		UserUID:       userUID,
		Amount:        3500,
		Method:        models.PaymentMethodPayPal,
		TransactionID: &txID,
		Entries:       []*models.CartEntry{fileEntry, productEntry},
	})
	require.NoError(t, err)
	require.NotZero(t, paymentID)

	t.Run("registra el pago sin membresía asociada", func(t *testing.T) {
		payments, err := storage.ListPayments(ctx, userUID)
		require.NoError(t, err)
		require.Len(t, payments, 1)
		assert.Equal(t, 3500, payments[0].Amount)
		assert.Nil(t, payments[0].MembershipPlanID)
		assert.Equal(t, models.PaymentStatusCompleted, payments[0].Status)
	})

	t.Run("concede descargas solo para los artículos digitales", func(t *testing.T) {
		has, err := storage.HasDownloadGrant(ctx, userUID, fileItemID)
		require.NoError(t, err)
		assert.True(t, has)

		has, err = storage.HasDownloadGrant(ctx, userUID, productItemID)
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("vacía las líneas reconciliadas del carrito", func(t *testing.T) {
		entries, err := storage.ListCartEntries(ctx, userUID)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestStorage_CreditMovements(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "madrina", "madrina@example.com")
	otherUID := factory.CreateUser(t, "ajeno", "ajeno@example.com")

	ctx := context.Background()

	for i, desc := range []string{"primer referido", "segundo referido", "tercer referido"} {
		id, err := storage.CreateCreditMovement(ctx, models.CreditMovement{
			UserUID:     userUID,
			Type:        "referido_registrado",
			Amount:      10,
			Description: desc,
		})
		require.NoError(t, err)
		require.NotZero(t, id)

		// Separa los timestamps para que el orden DESC sea observable.
		_, err = storage.DB.Exec(`UPDATE movimientos_credito SET fecha = fecha + make_interval(secs => $1) WHERE id = $2`,
			i, id)
		require.NoError(t, err)
	}

	_, err := storage.CreateCreditMovement(ctx, models.CreditMovement{
		UserUID: otherUID, Type: "referido_registrado", Amount: 10, Description: "de otro usuario",
	})
	require.NoError(t, err)

	movements, err := storage.ListCreditMovements(ctx, userUID)
	require.NoError(t, err)
	require.Len(t, movements, 3)
	assert.Equal(t, "tercer referido", movements[0].Description)
	assert.Equal(t, "primer referido", movements[2].Description)
	for _, m := range movements {
		assert.Equal(t, userUID, m.UserUID)
		assert.Equal(t, 10, m.Amount)
	}
}
