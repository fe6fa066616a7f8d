package access

const (
	// owner gets full access; collaborators get a row with their edit flag
	queryLookupAccess = `
		SELECT f.owner_id = $2 AS is_owner, c.can_edit
		FROM files f
		LEFT JOIN file_collaborators c
		  ON c.file_id = f.id AND c.user_id = $2
		WHERE f.id = $1
	`

	queryGrantAccess = `
		INSERT INTO file_collaborators (file_id, user_id, can_edit)
		VALUES ($1, $2, $3)
		ON CONFLICT (file_id, user_id) DO UPDATE SET can_edit = EXCLUDED.can_edit
	`
)
