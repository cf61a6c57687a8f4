package helper

import "gorm.io/gorm"

// ReconcileChildren syncs a persisted child collection against a submitted
// payload list keyed by primary id: payloads carrying a known id update their
// row, payloads without one (or with an unknown id) create a new row, and
// persisted rows absent from the payload are deleted. Used for form fields,
// field options and availability time slots.
//
// Callers must round-trip ids to get idempotent updates; a resubmitted child
// without its id is treated as new.
// remove is called for each row being dropped so dependents can go with it.
func ReconcileChildren[M any, P any](
	tx *gorm.DB,
	existing []M,
	submitted []P,
	idOf func(*M) uint,
	payloadID func(*P) uint,
	apply func(*M, *P),
	create func(*P) *M,
	remove func(*M) error,
) error {
	byID := make(map[uint]*M, len(existing))
	for i := range existing {
		byID[idOf(&existing[i])] = &existing[i]
	}

	kept := make(map[uint]struct{}, len(submitted))
	for i := range submitted {
		p := &submitted[i]
		if id := payloadID(p); id != 0 {
			if row, ok := byID[id]; ok {
				apply(row, p)
				if err := tx.Save(row).Error; err != nil {
					return err
				}
				kept[id] = struct{}{}
				continue
			}
		}
		row := create(p)
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		kept[idOf(row)] = struct{}{}
	}

	for id, row := range byID {
		if _, ok := kept[id]; !ok {
			if err := remove(row); err != nil {
				return err
			}
		}
	}
	return nil
}
