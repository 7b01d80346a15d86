package main

const schema = `
CREATE TABLE IF NOT EXISTS stores (
	id BIGSERIAL PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS catalog_variations (
	id BIGSERIAL PRIMARY KEY,
	sku TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	unit_price NUMERIC(12,2) NOT NULL DEFAULT 0,
	low_stock_threshold INT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS stock_entries (
	id BIGSERIAL PRIMARY KEY,
	store_id BIGINT NOT NULL REFERENCES stores(id),
	variation_id BIGINT NOT NULL REFERENCES catalog_variations(id),
	quantity INT NOT NULL CHECK (quantity >= 0),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (store_id, variation_id)
);

CREATE TABLE IF NOT EXISTS purchase_orders (
	id BIGSERIAL PRIMARY KEY,
	supplier_id BIGINT NOT NULL,
	store_id BIGINT NOT NULL REFERENCES stores(id),
	status TEXT NOT NULL DEFAULT 'DRAFT',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS purchase_order_items (
	id BIGSERIAL PRIMARY KEY,
	order_id BIGINT NOT NULL REFERENCES purchase_orders(id) ON DELETE CASCADE,
	variation_id BIGINT NOT NULL REFERENCES catalog_variations(id),
	ordered_quantity INT NOT NULL CHECK (ordered_quantity > 0),
	received_quantity INT NOT NULL DEFAULT 0
		CHECK (received_quantity >= 0 AND received_quantity <= ordered_quantity),
	price NUMERIC(12,2) NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS inventory_sessions (
	id BIGSERIAL PRIMARY KEY,
	store_id BIGINT NOT NULL REFERENCES stores(id),
	status TEXT NOT NULL DEFAULT 'IN_PROGRESS',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS inventory_count_items (
	id BIGSERIAL PRIMARY KEY,
	session_id BIGINT NOT NULL REFERENCES inventory_sessions(id) ON DELETE CASCADE,
	variation_id BIGINT NOT NULL REFERENCES catalog_variations(id),
	theoretical_quantity INT NOT NULL,
	counted_quantity INT CHECK (counted_quantity >= 0),
	UNIQUE (session_id, variation_id)
);

CREATE TABLE IF NOT EXISTS cashier_sessions (
	id BIGSERIAL PRIMARY KEY,
	user_id BIGINT NOT NULL,
	store_id BIGINT NOT NULL REFERENCES stores(id),
	started_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	ended_at TIMESTAMPTZ,
	opening_balance NUMERIC(12,2) NOT NULL CHECK (opening_balance >= 0),
	closing_balance NUMERIC(12,2),
	cash_total NUMERIC(12,2),
	card_total NUMERIC(12,2),
	mobile_total NUMERIC(12,2),
	difference NUMERIC(12,2)
);

CREATE TABLE IF NOT EXISTS sales (
	id BIGSERIAL PRIMARY KEY,
	store_id BIGINT NOT NULL REFERENCES stores(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sale_items (
	id BIGSERIAL PRIMARY KEY,
	sale_id BIGINT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
	variation_id BIGINT NOT NULL REFERENCES catalog_variations(id),
	quantity INT NOT NULL CHECK (quantity > 0),
	unit_price NUMERIC(12,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id BIGSERIAL PRIMARY KEY,
	sale_id BIGINT NOT NULL REFERENCES sales(id) ON DELETE CASCADE,
	method TEXT NOT NULL CHECK (method IN ('cash', 'card', 'mobile')),
	amount NUMERIC(12,2) NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sale_returns (
	id BIGSERIAL PRIMARY KEY,
	sale_id BIGINT NOT NULL REFERENCES sales(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS sale_return_items (
	id BIGSERIAL PRIMARY KEY,
	return_id BIGINT NOT NULL REFERENCES sale_returns(id) ON DELETE CASCADE,
	variation_id BIGINT NOT NULL REFERENCES catalog_variations(id),
	quantity INT NOT NULL CHECK (quantity > 0),
	unit_price NUMERIC(12,2) NOT NULL
);

CREATE TABLE IF NOT EXISTS notifications (
	id BIGSERIAL PRIMARY KEY,
	store_id BIGINT NOT NULL REFERENCES stores(id),
	variation_id BIGINT NOT NULL REFERENCES catalog_variations(id),
	type TEXT NOT NULL DEFAULT 'ALERT',
	message TEXT NOT NULL,
	read BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notifications_unread
	ON notifications (store_id, variation_id) WHERE read = FALSE;

CREATE TABLE IF NOT EXISTS audit_log (
	id UUID PRIMARY KEY,
	action TEXT NOT NULL,
	entity_type TEXT NOT NULL,
	entity_id BIGINT NOT NULL,
	actor TEXT NOT NULL,
	details TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const demoData = `
INSERT INTO stores (name) VALUES
	('Downtown'),
	('Riverside'),
	('Airport')
ON CONFLICT (name) DO NOTHING;

INSERT INTO catalog_variations (sku, name, unit_price, low_stock_threshold) VALUES
	('TSHIRT-BLK-M', 'T-Shirt Black M', 19.90, 5),
	('TSHIRT-BLK-L', 'T-Shirt Black L', 19.90, 5),
	('HOODIE-GRY-M', 'Hoodie Grey M', 49.90, 3),
	('CAP-RED-OS', 'Cap Red One Size', 14.50, NULL),
	('SOCKS-WHT-42', 'Socks White 42', 6.90, 10)
ON CONFLICT (sku) DO NOTHING;

INSERT INTO stock_entries (store_id, variation_id, quantity)
SELECT s.id, v.id, 10
FROM stores s CROSS JOIN catalog_variations v
ON CONFLICT (store_id, variation_id) DO NOTHING;
`
