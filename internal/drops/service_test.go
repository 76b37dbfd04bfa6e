package drops

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fooddrop-app/fooddrop-backend/internal/users"
	"github.com/fooddrop-app/fooddrop-backend/pkg/enums"
	pkgerrors "github.com/fooddrop-app/fooddrop-backend/pkg/errors"
	"github.com/fooddrop-app/fooddrop-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	svc, err := NewService(ServiceParams{
		DropRepo: NewRepository(db),
		UserRepo: users.NewRepository(db),
	})
	require.NoError(t, err)
	return svc, db
}

func requireCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed, "expected typed error, got %v", err)
	require.Equal(t, code, typed.Code())
}

func TestCreateDrop(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	donor := seedUser(t, db, enums.UserRoleDonor, "donor")

	dto, err := svc.Create(ctx, donor.ID, CreateDropInput{
		Title:       "Pan del día",
		Description: "Cinco bolillos",
		Location:    "19.4326,-99.1332",
	})
	require.NoError(t, err)
	require.Equal(t, enums.DropStateAvailable, dto.State)
	require.Equal(t, donor.ID, dto.DonorID)
	require.Equal(t, donor.DisplayName, dto.DonorName)
}

func TestCreateDropValidation(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	donor := seedUser(t, db, enums.UserRoleDonor, "donor")

	_, err := svc.Create(ctx, donor.ID, CreateDropInput{Title: "  ", Location: "19.43,-99.13"})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, donor.ID, CreateDropInput{Title: "Pan", Location: "not-coordinates"})
	requireCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(ctx, donor.ID, CreateDropInput{Title: "Pan", Location: "95.0,-99.13"})
	requireCode(t, err, pkgerrors.CodeValidation)
}

func TestCreateDropUnknownDonor(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)

	_, err := svc.Create(context.Background(), uuid.New(), CreateDropInput{
		Title:    "Pan",
		Location: "19.43,-99.13",
	})
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestClaimErrorMapping(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	donor := seedUser(t, db, enums.UserRoleDonor, "donor")
	first := seedUser(t, db, enums.UserRoleCollector, "first")
	second := seedUser(t, db, enums.UserRoleCollector, "second")
	drop := seedDrop(t, db, donor.ID, enums.DropStateAvailable)

	_, err := svc.Claim(ctx, uuid.New(), first.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	claim, err := svc.Claim(ctx, drop.ID, first.ID)
	require.NoError(t, err)
	require.Equal(t, drop.ID, claim.DropID)
	require.Equal(t, first.ID, claim.CollectorID)
	require.False(t, claim.EstimatedPickupTime.IsZero())

	_, err = svc.Claim(ctx, drop.ID, second.ID)
	requireCode(t, err, pkgerrors.CodeConflict)
}

func TestUpdateOrderedPreconditions(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	donor := seedUser(t, db, enums.UserRoleDonor, "donor")
	other := seedUser(t, db, enums.UserRoleDonor, "other")
	drop := seedDrop(t, db, donor.ID, enums.DropStateAvailable)
	reserved := seedDrop(t, db, donor.ID, enums.DropStateReserved)

	input := UpdateDropInput{Title: "Frutas", Location: "20.67,-103.35"}

	err := svc.Update(ctx, uuid.New(), donor.ID, input)
	requireCode(t, err, pkgerrors.CodeNotFound)

	err = svc.Update(ctx, drop.ID, other.ID, input)
	requireCode(t, err, pkgerrors.CodeForbidden)

	err = svc.Update(ctx, reserved.ID, donor.ID, input)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	// A reserved drop owned by someone else still reads as forbidden first.
	err = svc.Update(ctx, reserved.ID, other.ID, input)
	requireCode(t, err, pkgerrors.CodeForbidden)

	require.NoError(t, svc.Update(ctx, drop.ID, donor.ID, input))
}

func TestDeleteOrderedPreconditions(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	donor := seedUser(t, db, enums.UserRoleDonor, "donor")
	other := seedUser(t, db, enums.UserRoleDonor, "other")
	drop := seedDrop(t, db, donor.ID, enums.DropStateAvailable)
	reserved := seedDrop(t, db, donor.ID, enums.DropStateReserved)

	err := svc.Delete(ctx, uuid.New(), donor.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)

	err = svc.Delete(ctx, drop.ID, other.ID)
	requireCode(t, err, pkgerrors.CodeForbidden)

	err = svc.Delete(ctx, reserved.ID, donor.ID)
	requireCode(t, err, pkgerrors.CodeStateConflict)

	require.NoError(t, svc.Delete(ctx, drop.ID, donor.ID))

	err = svc.Delete(ctx, drop.ID, donor.ID)
	requireCode(t, err, pkgerrors.CodeNotFound)
}

func TestClaimThenEditConflict(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()

	donor := seedUser(t, db, enums.UserRoleDonor, "donor")
	collector := seedUser(t, db, enums.UserRoleCollector, "collector")
	drop := seedDrop(t, db, donor.ID, enums.DropStateAvailable)

	_, err := svc.Claim(ctx, drop.ID, collector.ID)
	require.NoError(t, err)

	err = svc.Update(ctx, drop.ID, donor.ID, UpdateDropInput{Title: "Tarde", Location: "19.43,-99.13"})
	requireCode(t, err, pkgerrors.CodeStateConflict)

	err = svc.Delete(ctx, drop.ID, donor.ID)
	requireCode(t, err, pkgerrors.CodeStateConflict)
}

func TestListAvailableOrdering(t *testing.T) {
	t.Parallel()

	svc, db := newTestService(t)
	ctx := context.Background()
	donor := seedUser(t, db, enums.UserRoleDonor, "donor")

	older := seedDrop(t, db, donor.ID, enums.DropStateAvailable)
	require.NoError(t, db.Model(older).Update("created_at", time.Now().Add(-time.Hour)).Error)
	newer := seedDrop(t, db, donor.ID, enums.DropStateAvailable)

	dtos, next, err := svc.ListAvailable(ctx, pagination.Params{})
	require.NoError(t, err)
	require.Empty(t, next)
	require.Len(t, dtos, 2)
	require.Equal(t, newer.ID, dtos[0].ID)
	require.Equal(t, older.ID, dtos[1].ID)

	_, _, err = svc.ListAvailable(ctx, pagination.Params{Cursor: "basura"})
	requireCode(t, err, pkgerrors.CodeValidation)
}
