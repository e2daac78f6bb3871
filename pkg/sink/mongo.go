package sink

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo writes each component as a summary document in "components" plus
// one document per node, edge and cluster in "nodes", "edges" and
// "clusters". The assembly record goes to "assembly". Every document
// carries the run id and component rank; rewriting a component of the same
// run replaces all of its documents.
//
// A component is written in one transaction, so the server must run as a
// replica set (a single-member set is enough).
type Mongo struct {
	client     *mongo.Client
	components *mongo.Collection
	nodes      *mongo.Collection
	edges      *mongo.Collection
	clusters   *mongo.Collection
	assembly   *mongo.Collection
}

// OpenMongo connects to the server at uri and verifies the connection.
func OpenMongo(ctx context.Context, uri, database string) (*Mongo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", uri, err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping %s: %w", uri, err)
	}
	db := client.Database(database)
	return &Mongo{
		client:     client,
		components: db.Collection("components"),
		nodes:      db.Collection("nodes"),
		edges:      db.Collection("edges"),
		clusters:   db.Collection("clusters"),
		assembly:   db.Collection("assembly"),
	}, nil
}

// componentKey identifies the documents of one component.
type componentKey struct {
	RunID string `bson:"run_id"`
	Rank  int    `bson:"rank"`
}

type nodeDoc struct {
	Key    componentKey `bson:",inline"`
	Record NodeRecord   `bson:",inline"`
}

type edgeDoc struct {
	Key    componentKey `bson:",inline"`
	Record EdgeRecord   `bson:",inline"`
}

type clusterDoc struct {
	Key    componentKey  `bson:",inline"`
	Record ClusterRecord `bson:",inline"`
}

// componentDocs is the document set of one component.
type componentDocs struct {
	key      componentKey
	summary  ComponentRecord
	nodes    []any
	edges    []any
	clusters []any
}

func splitComponent(rec *ComponentRecord) componentDocs {
	key := componentKey{RunID: rec.RunID, Rank: rec.Rank}
	d := componentDocs{
		key:      key,
		summary:  rec.Summary(),
		nodes:    make([]any, len(rec.Nodes)),
		edges:    make([]any, len(rec.Edges)),
		clusters: make([]any, len(rec.Clusters)),
	}
	for i, n := range rec.Nodes {
		d.nodes[i] = nodeDoc{key, n}
	}
	for i, e := range rec.Edges {
		d.edges[i] = edgeDoc{key, e}
	}
	for i, c := range rec.Clusters {
		d.clusters[i] = clusterDoc{key, c}
	}
	return d
}

// WriteComponent replaces every document of the component in one
// transaction.
func (m *Mongo) WriteComponent(ctx context.Context, rec *ComponentRecord) error {
	d := splitComponent(rec)
	filter := bson.M{"run_id": d.key.RunID, "rank": d.key.Rank}

	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("write component %d: %w", rec.Rank, err)
	}
	defer sess.EndSession(context.Background())

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, part := range []struct {
			coll *mongo.Collection
			docs []any
		}{
			{m.nodes, d.nodes},
			{m.edges, d.edges},
			{m.clusters, d.clusters},
		} {
			if _, err := part.coll.DeleteMany(sc, filter); err != nil {
				return nil, fmt.Errorf("clear %s: %w", part.coll.Name(), err)
			}
			if len(part.docs) == 0 {
				continue
			}
			if _, err := part.coll.InsertMany(sc, part.docs); err != nil {
				return nil, fmt.Errorf("insert %s: %w", part.coll.Name(), err)
			}
		}
		_, err := m.components.ReplaceOne(sc, filter, d.summary, options.Replace().SetUpsert(true))
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("write component %d: %w", rec.Rank, err)
	}
	return nil
}

// WriteAssembly upserts the assembly document.
func (m *Mongo) WriteAssembly(ctx context.Context, rec *AssemblyRecord) error {
	filter := bson.M{"run_id": rec.RunID}
	_, err := m.assembly.ReplaceOne(ctx, filter, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("write assembly: %w", err)
	}
	return nil
}

// Close disconnects from the server.
func (m *Mongo) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

var _ Sink = (*Mongo)(nil)
