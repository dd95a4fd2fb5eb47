package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// MakeID derives a stable node id from a make name.
func MakeID(name string) string {
	return slug(name)
}

// ModelID derives a stable node id from make and model names.
func ModelID(makeName, model string) string {
	return slug(makeName) + "-" + slug(model)
}

// VersionID derives a stable node id for a version of a model year.
func VersionID(makeName, model, version string, year int) string {
	return fmt.Sprintf("%s-%s-%d", ModelID(makeName, model), slug(version), year)
}

func slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
}

// SaveMake creates or updates a Make node.
func (g *Store) SaveMake(ctx context.Context, m Make) error {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MERGE (n:Make {id: $id}) SET n.name = $name`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"id":   m.ID,
		"name": m.Name,
	})
	return err
}

// SaveModel creates or updates a VehicleModel node and links it to its Make.
func (g *Store) SaveModel(ctx context.Context, m VehicleModel) error {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MERGE (n:VehicleModel {id: $id}) SET n.name = $name, n.make_id = $makeID
	           WITH n
	           MATCH (mk:Make {id: $makeID})
	           MERGE (mk)-[:HAS_MODEL]->(n)`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"id":     m.ID,
		"name":   m.Name,
		"makeID": m.MakeID,
	})
	return err
}

// SaveVersion creates or updates a Version node and links it to its VehicleModel.
func (g *Store) SaveVersion(ctx context.Context, v Version) error {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MERGE (n:Version {id: $id}) SET n += $props
	           WITH n
	           MATCH (m:VehicleModel {id: $modelID})
	           MERGE (m)-[:HAS_VERSION]->(n)`
	_, err := sess.Run(ctx, cypher, map[string]any{
		"id":      v.ID,
		"modelID": v.ModelID,
		"props":   versionToMap(v),
	})
	return err
}

// SaveSnapshot upserts the full Make→VehicleModel→Version chain for a version
// in a single transaction.
func (g *Store) SaveSnapshot(ctx context.Context, v Version) error {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	makeID := MakeID(v.Make)
	modelID := ModelID(v.Make, v.Model)
	if v.ModelID == "" {
		v.ModelID = modelID
	}

	_, err := sess.ExecuteWrite(ctx, func(tx CypherRunner) (any, error) {
		cypher := `MERGE (mk:Make {id: $id}) SET mk.name = $name`
		if _, err := tx.Run(ctx, cypher, map[string]any{"id": makeID, "name": v.Make}); err != nil {
			return nil, err
		}

		cypher = `MERGE (m:VehicleModel {id: $id}) SET m.name = $name, m.make_id = $makeID
		          WITH m
		          MATCH (mk:Make {id: $makeID})
		          MERGE (mk)-[:HAS_MODEL]->(m)`
		if _, err := tx.Run(ctx, cypher, map[string]any{"id": modelID, "name": v.Model, "makeID": makeID}); err != nil {
			return nil, err
		}

		cypher = `MERGE (n:Version {id: $id}) SET n += $props
		          WITH n
		          MATCH (m:VehicleModel {id: $modelID})
		          MERGE (m)-[:HAS_VERSION]->(n)`
		if _, err := tx.Run(ctx, cypher, map[string]any{
			"id": v.ID, "modelID": modelID, "props": versionToMap(v),
		}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// Makes returns every make in the catalog ordered by name.
func (g *Store) Makes(ctx context.Context) ([]Make, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (mk:Make) RETURN mk AS n ORDER BY mk.name`
	result, err := sess.Run(ctx, cypher, nil)
	if err != nil {
		return nil, err
	}

	var makes []Make
	for result.Next(ctx) {
		node, _, err := neo4j.GetRecordValue[dbtype.Node](result.Record(), "n")
		if err != nil {
			return nil, err
		}
		makes = append(makes, Make{
			ID:   strProp(node.Props, "id"),
			Name: strProp(node.Props, "name"),
		})
	}
	return makes, result.Err()
}

// VersionsByModel returns every version of a make's model. Model may be empty
// to fetch all versions of the make.
func (g *Store) VersionsByModel(ctx context.Context, makeName, model string) ([]Version, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	var cypher string
	params := map[string]any{}
	if model == "" {
		cypher = `MATCH (mk:Make {id: $makeID})-[:HAS_MODEL]->(:VehicleModel)-[:HAS_VERSION]->(n:Version)
		          RETURN n ORDER BY n.year DESC, n.name`
		params["makeID"] = MakeID(makeName)
	} else {
		cypher = `MATCH (m:VehicleModel {id: $modelID})-[:HAS_VERSION]->(n:Version)
		          RETURN n ORDER BY n.year DESC, n.name`
		params["modelID"] = ModelID(makeName, model)
	}

	result, err := sess.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return collectVersions(ctx, result)
}

// VersionByID returns a single version node.
func (g *Store) VersionByID(ctx context.Context, id string) (Version, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (n:Version {id: $id}) RETURN n`
	result, err := sess.Run(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return Version{}, err
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return Version{}, err
		}
		return Version{}, fmt.Errorf("version %s: %w", id, ErrNotFound)
	}
	node, _, err := neo4j.GetRecordValue[dbtype.Node](result.Record(), "n")
	if err != nil {
		return Version{}, err
	}
	return versionFromProps(node.Props), nil
}

// VersionsByFuel returns all versions with a given fuel category.
func (g *Store) VersionsByFuel(ctx context.Context, fuel string) ([]Version, error) {
	sess := g.opener.OpenSession(ctx)
	defer sess.Close(ctx)

	cypher := `MATCH (n:Version {fuel: $fuel}) RETURN n ORDER BY n.make, n.model, n.year DESC`
	result, err := sess.Run(ctx, cypher, map[string]any{"fuel": fuel})
	if err != nil {
		return nil, err
	}
	return collectVersions(ctx, result)
}

// collectVersions reads all Version nodes from a result set.
func collectVersions(ctx context.Context, result CypherResult) ([]Version, error) {
	var items []Version
	for result.Next(ctx) {
		node, _, err := neo4j.GetRecordValue[dbtype.Node](result.Record(), "n")
		if err != nil {
			return nil, err
		}
		items = append(items, versionFromProps(node.Props))
	}
	return items, result.Err()
}
