package visit

// RecordPolicy decides whether saved clinical records may be edited.
type RecordPolicy struct {
	Editable bool
}

func (p RecordPolicy) checkEditable() error {
	if !p.Editable {
		return ErrRecordsImmutable
	}
	return nil
}
