package mysql

const insertUserSQL = `
INSERT INTO users (email, password_hash, role, status, full_name, phone, city)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const getUserSQL = `
SELECT id, email, password_hash, role, status, full_name, phone, city, created_at, updated_at
FROM users WHERE id = ?
`

const getUserByEmailSQL = `
SELECT id, email, password_hash, role, status, full_name, phone, city, created_at, updated_at
FROM users WHERE email = ?
`

const updateUserSQL = `
UPDATE users SET full_name = ?, phone = ?, city = ? WHERE id = ?
`

const upsertProfileSQL = `
INSERT INTO professional_profiles
  (user_id, business_name, category, bio, hourly_rate, service_area)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  business_name = VALUES(business_name),
  category      = VALUES(category),
  bio           = VALUES(bio),
  hourly_rate   = VALUES(hourly_rate),
  service_area  = VALUES(service_area),
  updated_at    = CURRENT_TIMESTAMP
`

const getProfileSQL = `
SELECT user_id, business_name, category, bio, hourly_rate, service_area,
       rating_avg, rating_count, updated_at
FROM professional_profiles WHERE user_id = ?
`

// Rolls the running rating aggregate forward by one review.
const applyRatingSQL = `
UPDATE professional_profiles
SET rating_avg   = (rating_avg * rating_count + ?) / (rating_count + 1),
    rating_count = rating_count + 1
WHERE user_id = ?
`

// Listing joins users with their profile; filters are appended dynamically.
const listProfessionalsPrefix = `
SELECT u.id, u.full_name, u.city,
       p.business_name, p.category, p.bio, p.hourly_rate, p.service_area,
       p.rating_avg, p.rating_count
FROM professional_profiles p
JOIN users u ON u.id = p.user_id AND u.status = 'active'
`

const insertRequestSQL = `
INSERT INTO service_requests (client_id, category, title, description, address, budget, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const getRequestSQL = `
SELECT id, client_id, category, title, description, address, budget, status, created_at, updated_at
FROM service_requests WHERE id = ?
`

const insertQuoteSQL = `
INSERT INTO quotes (request_id, professional_id, amount, message, status)
VALUES (?, ?, ?, ?, ?)
`

const getQuoteSQL = `
SELECT id, request_id, professional_id, amount, message, status, created_at, updated_at
FROM quotes WHERE id = ?
`

const insertPaymentSQL = `
INSERT INTO payments (quote_id, payer_id, payee_id, amount, currency, reference, status)
VALUES (?, ?, ?, ?, ?, ?, ?)
`

const getPaymentSQL = `
SELECT id, quote_id, payer_id, payee_id, amount, currency, reference, status, created_at, updated_at
FROM payments WHERE id = ?
`

const insertInvoiceSQL = `
INSERT INTO invoices (payment_id, number, items) VALUES (?, ?, ?)
`

const getInvoiceSQL = `
SELECT id, payment_id, number, issued_at, items FROM invoices WHERE id = ?
`

const insertReviewSQL = `
INSERT INTO reviews (request_id, reviewer_id, reviewee_id, rating, comment)
VALUES (?, ?, ?, ?, ?)
`

const ensureChatSQL = `
INSERT INTO chats (request_id, client_id, professional_id)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)
`

const getChatSQL = `
SELECT id, request_id, client_id, professional_id, created_at FROM chats WHERE id = ?
`

const insertMessageSQL = `
INSERT INTO messages (id, chat_id, sender_id, body) VALUES (?, ?, ?, ?)
`
